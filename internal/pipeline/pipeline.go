package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/observability"
	"retail-sales-lab/internal/recommendation"
	"retail-sales-lab/internal/reporting"
	"retail-sales-lab/internal/storage"
)

// ReportFile is the Markdown report written into the output directory.
const ReportFile = "REPORT.md"

// Snapshot table names, used as metric labels.
const (
	TableMonthlyRevenue = "monthly_revenue"
	TableCustomers      = "customer_metrics"
	TableProducts       = "product_metrics"
	TableCountries      = "country_metrics"
)

// Result summarizes a successful run.
type Result struct {
	RunID    string
	Report   *reporting.Report
	Files    []string // written files, report first
	Exported bool     // snapshot stores received the run's tables
}

// Pipeline runs the full batch: load → clean → analyze → recommend → report → export.
type Pipeline struct {
	source     storage.TransactionStore
	sourceName string
	engine     *recommendation.Engine
	runner     *analysis.Runner
	reportGen  *reporting.Generator
	snapshots  *storage.SnapshotStores // optional
	runs       storage.RunStore        // optional
	metrics    *observability.Metrics
	logger     logrus.FieldLogger
	outputDir  string
	clock      func() time.Time
}

// New creates a pipeline reading from source and writing into outputDir.
func New(source storage.TransactionStore, engine *recommendation.Engine, outputDir string) *Pipeline {
	clock := func() time.Time { return time.Now().UTC() }
	return &Pipeline{
		source:     source,
		sourceName: "store",
		engine:     engine,
		runner:     analysis.NewRunner(),
		reportGen:  reporting.NewGenerator().WithClock(clock),
		metrics:    observability.NewMetrics(""),
		logger:     observability.DiscardLogger(),
		outputDir:  outputDir,
		clock:      clock,
	}
}

// WithRunner sets the analyzer runner (sequential or concurrent).
func (p *Pipeline) WithRunner(r *analysis.Runner) *Pipeline {
	p.runner = r
	return p
}

// WithSnapshotStores enables export of the run's tables.
func (p *Pipeline) WithSnapshotStores(s storage.SnapshotStores) *Pipeline {
	p.snapshots = &s
	return p
}

// WithRunStore enables run registry updates.
func (p *Pipeline) WithRunStore(s storage.RunStore) *Pipeline {
	p.runs = s
	return p
}

// WithMetrics sets the metrics sink.
func (p *Pipeline) WithMetrics(m *observability.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// WithLogger sets the logger.
func (p *Pipeline) WithLogger(l logrus.FieldLogger) *Pipeline {
	p.logger = l
	return p
}

// WithSourceName sets the input description stored in the run registry.
func (p *Pipeline) WithSourceName(name string) *Pipeline {
	p.sourceName = name
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// Run executes the pipeline and writes:
// - REPORT.md
// - monthly_revenue.csv
// - customer_segmentation.csv
// - product_performance.csv
// - geographic_performance.csv
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	wallStart := time.Now()
	run := &storage.RunRecord{Source: p.sourceName, StartedAt: p.clock()}

	res, err := p.run(ctx, run)

	status := observability.StatusSuccess
	run.Status = storage.RunStatusSucceeded
	if err != nil {
		status = observability.StatusError
		run.Status = storage.RunStatusFailed
		run.Error = err.Error()
	}
	run.FinishedAt = p.clock()
	if run.RunID == "" {
		run.RunID = "run-" + run.StartedAt.UTC().Format("20060102T150405.000Z")
	}

	elapsed := time.Since(wallStart)
	p.metrics.RecordPipelineRun(status, elapsed.Seconds())
	if err == nil {
		p.metrics.LastSuccessfulPipeline.Set(float64(run.FinishedAt.Unix()))
	}

	if p.runs != nil {
		if recErr := p.runs.Record(ctx, run); recErr != nil {
			p.logger.WithError(recErr).WithField("run_id", run.RunID).Warn("failed to record run")
			if err == nil {
				err = fmt.Errorf("record run: %w", recErr)
				res = nil
			}
		}
	}

	log := p.logger.WithFields(logrus.Fields{
		"run_id":      run.RunID,
		"duration_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		log.WithError(err).Error("pipeline failed")
		return nil, err
	}
	log.Info("pipeline completed")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, run *storage.RunRecord) (*Result, error) {
	records, err := p.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	run.RawRows = len(records)
	p.logger.WithField("raw_rows", len(records)).Info("transactions loaded")

	a, err := Analyze(ctx, records, p.engine, p.runner)
	run.CleanedRows = a.cleanedRows()
	if a != nil {
		p.recordCleaning(a)
	}
	if err != nil {
		return nil, err
	}

	run.RunID = ComputeRunID(a.Transactions)
	p.logger.WithFields(logrus.Fields{
		"run_id":     run.RunID,
		"months":     len(a.Results.Revenue.Months),
		"customers":  len(a.Results.Customers.Customers),
		"products":   len(a.Results.Products.Products),
		"countries":  len(a.Results.Countries),
		"concurrent": p.runner.Concurrent(),
	}).Info("analysis completed")

	report, err := p.reportGen.Generate(reporting.Input{
		RunID:           run.RunID,
		Stats:           a.Stats,
		Transactions:    a.Transactions,
		Results:         a.Results,
		Recommendations: a.Recommendations,
	})
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	files, err := p.writeOutputs(report, reporting.TablesFrom(a.Results))
	if err != nil {
		return nil, err
	}
	p.metrics.ReportsGenerated.Inc()

	result := &Result{RunID: run.RunID, Report: report, Files: files}
	if p.snapshots != nil {
		if err := p.export(ctx, run.RunID, reporting.TablesFrom(a.Results)); err != nil {
			return nil, err
		}
		result.Exported = true
	}
	return result, nil
}

func (a *Analysis) cleanedRows() int {
	if a == nil {
		return 0
	}
	return a.Stats.OutputRows
}

func (p *Pipeline) recordCleaning(a *Analysis) {
	s := a.Stats
	p.metrics.RecordRows(s.InputRows, s.OutputRows, map[string]int{
		"missing_customer":      s.DroppedMissingCustomer,
		"non_positive_quantity": s.DroppedNonPositiveQuantity,
		"non_positive_price":    s.DroppedNonPositivePrice,
	})
	p.logger.WithFields(logrus.Fields{
		"raw_rows":                      s.InputRows,
		"cleaned_rows":                  s.OutputRows,
		"dropped_missing_customer":      s.DroppedMissingCustomer,
		"dropped_non_positive_quantity": s.DroppedNonPositiveQuantity,
		"dropped_non_positive_price":    s.DroppedNonPositivePrice,
	}).Info("transactions cleaned")
}

// writeOutputs writes REPORT.md and the CSV exports.
func (p *Pipeline) writeOutputs(report *reporting.Report, tables reporting.Tables) ([]string, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	reportPath := filepath.Join(p.outputDir, ReportFile)
	if err := os.WriteFile(reportPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	csvPaths, err := reporting.WriteCSVFiles(p.outputDir, tables)
	if err != nil {
		return nil, err
	}

	files := append([]string{reportPath}, csvPaths...)
	p.logger.WithField("output_dir", p.outputDir).Infof("wrote %d files", len(files))
	return files, nil
}

// export writes the run's tables to the snapshot stores. A table that
// already holds runID was exported by an earlier run on the same data.
func (p *Pipeline) export(ctx context.Context, runID string, t reporting.Tables) error {
	steps := []struct {
		table string
		rows  int
		write func() error
	}{
		{TableMonthlyRevenue, len(t.Monthly), func() error { return p.snapshots.Monthly.InsertBulk(ctx, runID, t.Monthly) }},
		{TableCustomers, len(t.Customers), func() error { return p.snapshots.Customers.InsertBulk(ctx, runID, t.Customers) }},
		{TableProducts, len(t.Products), func() error { return p.snapshots.Products.InsertBulk(ctx, runID, t.Products) }},
		{TableCountries, len(t.Countries), func() error { return p.snapshots.Countries.InsertBulk(ctx, runID, t.Countries) }},
	}

	for _, s := range steps {
		err := s.write()
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			p.logger.WithFields(logrus.Fields{"run_id": runID, "table": s.table}).Info("snapshot already exported")
		case err != nil:
			return fmt.Errorf("export %s: %w", s.table, err)
		default:
			p.metrics.RecordExport(s.table, s.rows)
		}
	}
	return nil
}

// LoadTables reads a run's export tables back from the snapshot stores.
func LoadTables(ctx context.Context, stores storage.SnapshotStores, runID string) (reporting.Tables, error) {
	var (
		t   reporting.Tables
		err error
	)
	if t.Monthly, err = stores.Monthly.GetByRun(ctx, runID); err != nil {
		return t, fmt.Errorf("load %s: %w", TableMonthlyRevenue, err)
	}
	if t.Customers, err = stores.Customers.GetByRun(ctx, runID); err != nil {
		return t, fmt.Errorf("load %s: %w", TableCustomers, err)
	}
	if t.Products, err = stores.Products.GetByRun(ctx, runID); err != nil {
		return t, fmt.Errorf("load %s: %w", TableProducts, err)
	}
	if t.Countries, err = stores.Countries.GetByRun(ctx, runID); err != nil {
		return t, fmt.Errorf("load %s: %w", TableCountries, err)
	}
	return t, nil
}
