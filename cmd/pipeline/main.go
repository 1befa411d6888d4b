// Package main provides the batch analysis entry point.
// Executes: load → clean → analyze → recommend → report → export
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/config"
	"retail-sales-lab/internal/dataset"
	"retail-sales-lab/internal/observability"
	"retail-sales-lab/internal/pipeline"
	"retail-sales-lab/internal/recommendation"
	"retail-sales-lab/internal/storage"
	chstore "retail-sales-lab/internal/storage/clickhouse"
	"retail-sales-lab/internal/storage/memory"
	"retail-sales-lab/internal/storage/migrations"
	pgstore "retail-sales-lab/internal/storage/postgres"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Parse flags
	input := flag.String("input", cfg.Input, "Path to the XLSX or CSV dataset")
	sheet := flag.String("sheet", cfg.Sheet, "Worksheet name for XLSX input (empty for the first sheet)")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string (source transactions and run registry)")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string (snapshot export)")
	useFixtures := flag.Bool("use-fixtures", false, "Use the built-in demo dataset")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Output directory for generated files")
	policyFile := flag.String("policy-file", cfg.PolicyFile, "YAML file overriding recommendation multipliers")
	concurrent := flag.Bool("concurrent", cfg.Concurrent, "Run the analyzers concurrently")
	metricsFile := flag.String("metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile after the run")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", cfg.LogFormat, "Log format (text, json)")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, *logLevel, *logFormat)

	if !*useFixtures && *input == "" && *postgresDSN == "" {
		logger.Fatal("one of --input, --postgres-dsn or --use-fixtures is required")
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warnf("Received signal %v, cancelling pipeline", sig)
		cancel()
	}()

	policy, err := config.LoadPolicy(*policyFile)
	if err != nil {
		logger.Fatalf("Failed to load policy: %v", err)
	}
	engine, err := recommendation.NewEngine(policy)
	if err != nil {
		logger.Fatalf("Failed to create recommendation engine: %v", err)
	}

	metrics := observability.NewMetrics("")
	runErr := run(ctx, logger, metrics, options{
		input:         *input,
		sheet:         *sheet,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		useFixtures:   *useFixtures,
		outputDir:     *outputDir,
		concurrent:    *concurrent,
	}, engine)

	if *metricsFile != "" {
		if err := metrics.WriteTextfile(*metricsFile); err != nil {
			logger.WithError(err).Error("Failed to write metrics")
		}
	}

	if runErr != nil {
		if errors.Is(runErr, analysis.ErrEmptyDataset) {
			logger.Fatal("No transactions left after cleaning")
		}
		logger.Fatalf("Pipeline error: %v", runErr)
	}
}

type options struct {
	input         string
	sheet         string
	postgresDSN   string
	clickhouseDSN string
	useFixtures   bool
	outputDir     string
	concurrent    bool
}

func run(ctx context.Context, logger *logrus.Logger, metrics *observability.Metrics, opts options, engine *recommendation.Engine) error {
	var (
		source     storage.TransactionStore
		sourceName string
		runs       storage.RunStore = memory.NewRunStore()
	)

	if opts.postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		runs = pgstore.NewRunStore(pool)
		source = pgstore.NewTransactionStore(pool)
		sourceName = "postgres"
	}

	switch {
	case opts.useFixtures:
		mem := memory.NewTransactionStore()
		if err := pipeline.LoadFixtures(ctx, mem); err != nil {
			return err
		}
		source, sourceName = mem, "fixtures"
	case opts.input != "":
		records, err := dataset.LoadFile(opts.input, opts.sheet)
		if err != nil {
			return err
		}
		mem := memory.NewTransactionStore()
		if err := mem.InsertBulk(ctx, records); err != nil {
			return err
		}
		source, sourceName = mem, opts.input
	}

	p := pipeline.New(source, engine, opts.outputDir).
		WithRunner(analysis.NewRunner().WithConcurrency(opts.concurrent)).
		WithRunStore(runs).
		WithMetrics(metrics).
		WithLogger(logger).
		WithSourceName(sourceName)

	if opts.clickhouseDSN != "" {
		conn, err := chstore.OpenDatabase(ctx, opts.clickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := migrations.ApplyClickhouse(ctx, conn); err != nil {
			return err
		}
		p = p.WithSnapshotStores(chstore.NewSnapshotStores(conn))
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.WithField("run_id", res.RunID).Info("Pipeline completed successfully")
	for _, f := range res.Files {
		logger.Infof("  - %s", f)
	}
	return nil
}
