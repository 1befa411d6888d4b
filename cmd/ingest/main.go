// Package main loads a retail dataset file into the PostgreSQL transactions table.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"retail-sales-lab/internal/config"
	"retail-sales-lab/internal/dataset"
	"retail-sales-lab/internal/observability"
	"retail-sales-lab/internal/storage/migrations"
	pgstore "retail-sales-lab/internal/storage/postgres"
)

// batchSize bounds the rows sent per transaction.
const batchSize = 5000

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
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", cfg.LogFormat, "Log format (text, json)")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, *logLevel, *logFormat)

	if *input == "" || *postgresDSN == "" {
		logger.Fatal("--input and --postgres-dsn are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warnf("Received signal %v, cancelling ingest", sig)
		cancel()
	}()

	if err := run(ctx, logger, *input, *sheet, *postgresDSN); err != nil {
		logger.Fatalf("Ingest error: %v", err)
	}
}

func run(ctx context.Context, logger *logrus.Logger, input, sheet, dsn string) error {
	start := time.Now()

	records, err := dataset.LoadFile(input, sheet)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"input": input, "rows": len(records)}).Info("dataset decoded")

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	store := pgstore.NewTransactionStore(pool)
	for lo := 0; lo < len(records); lo += batchSize {
		hi := min(lo+batchSize, len(records))
		if err := store.InsertBulk(ctx, records[lo:hi]); err != nil {
			return err
		}
		logger.Debugf("inserted rows %d-%d", lo, hi)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"inserted":    len(records),
		"total_rows":  total,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Ingest completed")
	return nil
}
