package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/pipeline"
	"retail-sales-lab/internal/recommendation"
	"retail-sales-lab/internal/reporting"
	"retail-sales-lab/internal/storage"
	"retail-sales-lab/internal/storage/memory"
)

func ptrFloat64(v float64) *float64 { return &v }

func sampleTables() reporting.Tables {
	return reporting.Tables{
		Monthly: []domain.MonthlyRevenue{
			{Month: domain.YearMonth{Year: 2011, Month: time.January}, Revenue: decimal.RequireFromString("1000.12345")},
			{Month: domain.YearMonth{Year: 2011, Month: time.February}, Revenue: decimal.RequireFromString("1500"), GrowthRatePercent: ptrFloat64(49.98)},
		},
		Customers: []domain.CustomerMetric{
			{CustomerID: "12346", OrderCount: 2, TotalRevenue: decimal.RequireFromString("200"), TotalItems: 5,
				AvgOrderValue: decimal.RequireFromString("100"), Segment: domain.SegmentHighValue},
		},
		Products: []domain.ProductMetric{
			{StockCode: "22423", Description: "REGENCY CAKESTAND 3 TIER", TotalQuantity: 4, TotalRevenue: decimal.RequireFromString("51"), OrderCount: 2},
		},
		Countries: []domain.CountryMetric{
			{Country: "France", TotalRevenue: decimal.RequireFromString("200"), CustomerCount: 1, OrderCount: 2},
		},
	}
}

func TestCompareTables_ExactMatch(t *testing.T) {
	divs, checked := CompareTables(sampleTables(), sampleTables())
	if len(divs) != 0 {
		t.Errorf("expected no divergences, got %v", divs)
	}
	if checked != 5 {
		t.Errorf("checked = %d, want 5", checked)
	}
}

func TestCompareTables_StoragePrecision(t *testing.T) {
	stored := sampleTables()
	// Decimal(18,4) keeps four places.
	stored.Monthly[0].Revenue = decimal.RequireFromString("1000.1235")

	divs, _ := CompareTables(stored, sampleTables())
	if len(divs) != 0 {
		t.Errorf("rounding to storage precision should match, got %v", divs)
	}
}

func TestCompareTables_Divergences(t *testing.T) {
	stored := sampleTables()
	stored.Customers[0].Segment = domain.SegmentLowValue
	stored.Monthly[1].GrowthRatePercent = nil
	stored.Countries = append(stored.Countries, domain.CountryMetric{Country: "EIRE"})

	divs, _ := CompareTables(stored, sampleTables())
	if len(divs) != 3 {
		t.Fatalf("expected 3 divergences, got %d: %v", len(divs), divs)
	}

	fields := map[string]bool{}
	for _, d := range divs {
		fields[d.Table+"."+d.Field] = true
	}
	for _, want := range []string{"monthly_revenue.GrowthRatePercent", "customer_metrics.Segment", "country_metrics.count"} {
		if !fields[want] {
			t.Errorf("missing divergence %s in %v", want, divs)
		}
	}
}

func setupRun(t *testing.T) (*memory.TransactionStore, storage.SnapshotStores, *recommendation.Engine, string) {
	t.Helper()
	ctx := context.Background()

	engine, err := recommendation.NewEngine(recommendation.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	source := memory.NewTransactionStore()
	if err := pipeline.LoadFixtures(ctx, source); err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	snapshots := memory.NewSnapshotStores()

	res, err := pipeline.New(source, engine, t.TempDir()).WithSnapshotStores(snapshots).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return source, snapshots, engine, res.RunID
}

func TestReplayVerifier_Match(t *testing.T) {
	source, snapshots, engine, runID := setupRun(t)

	v := NewReplayVerifier(ReplayVerifierOptions{Source: source, Snapshots: snapshots, Engine: engine})
	report, err := v.Verify(context.Background(), runID)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Match() {
		t.Errorf("expected match, got %v", report.Divergences)
	}
	if report.RowsChecked == 0 {
		t.Error("no rows checked")
	}
}

func TestReplayVerifier_DetectsTamperedSnapshot(t *testing.T) {
	source, _, engine, runID := setupRun(t)
	ctx := context.Background()

	a, err := pipeline.Analyze(ctx, pipeline.FixtureTransactions(), engine, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	tables := reporting.TablesFrom(a.Results)

	tampered := memory.NewSnapshotStores()
	products := append([]domain.ProductMetric(nil), tables.Products...)
	products[0].TotalRevenue = products[0].TotalRevenue.Add(decimal.NewFromInt(1))
	for _, err := range []error{
		tampered.Monthly.InsertBulk(ctx, runID, tables.Monthly),
		tampered.Customers.InsertBulk(ctx, runID, tables.Customers),
		tampered.Products.InsertBulk(ctx, runID, products),
		tampered.Countries.InsertBulk(ctx, runID, tables.Countries),
	} {
		if err != nil {
			t.Fatalf("InsertBulk: %v", err)
		}
	}

	v := NewReplayVerifier(ReplayVerifierOptions{Source: source, Snapshots: tampered, Engine: engine})
	report, err := v.Verify(ctx, runID)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Match() {
		t.Fatal("expected divergence")
	}
	if d := report.Divergences[0]; d.Table != "product_metrics" || d.Field != "TotalRevenue" {
		t.Errorf("unexpected divergence %v", d)
	}
}

func TestReplayVerifier_RunMismatch(t *testing.T) {
	source, snapshots, engine, _ := setupRun(t)

	v := NewReplayVerifier(ReplayVerifierOptions{Source: source, Snapshots: snapshots, Engine: engine})
	_, err := v.Verify(context.Background(), "000000000000")
	if !errors.Is(err, ErrRunMismatch) {
		t.Errorf("expected ErrRunMismatch, got %v", err)
	}
}
