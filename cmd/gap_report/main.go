// Command gap_report runs the gap detector against the ledger, files GAP
// warnings for unexplained gaps, and writes the gap projection to an xlsx
// file. With -year and -month it instead exports the monthly overview.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/app"
	"github.com/freightdocs/golang_services/internal/ledger_service/reporting"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository/postgres"
	"github.com/freightdocs/golang_services/internal/platform/config"
	"github.com/freightdocs/golang_services/internal/platform/database"
	"github.com/freightdocs/golang_services/internal/platform/logger"
	"github.com/joho/godotenv"
)

const serviceName = "gap-report"

func main() {
	year := flag.Int("year", 0, "export the monthly overview for this year (requires -month)")
	month := flag.Int("month", 0, "export the monthly overview for this month (requires -year)")
	skipFiling := flag.Bool("skip-filing", false, "detect gaps without filing GAP warnings")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	deliveryRepo := postgres.NewPgDeliveryRepository(appLogger)
	warningRepo := postgres.NewPgWarningRepository(appLogger)
	discardRepo := postgres.NewPgDiscardRepository(appLogger)
	ledgerApp := app.NewLedgerService(dbPool, deliveryRepo, warningRepo, discardRepo, nil, appLogger)

	if err := os.MkdirAll(cfg.ReportOutputDir, 0o755); err != nil {
		appLogger.Error("Failed to create report output directory", "dir", cfg.ReportOutputDir, "error", err)
		os.Exit(1)
	}

	if *year != 0 || *month != 0 {
		if *year == 0 || *month < 1 || *month > 12 {
			appLogger.Error("Both -year and -month (1-12) are required for the overview export")
			os.Exit(1)
		}
		records, err := ledgerApp.ListDeliveriesByMonth(ctx, *year, *month)
		if err != nil {
			appLogger.Error("Failed to list deliveries for overview", "error", err)
			os.Exit(1)
		}
		path, err := reporting.WriteMonthlyOverview(records, *year, *month, cfg.ReportOutputDir)
		if err != nil {
			appLogger.Error("Failed to write monthly overview", "error", err)
			os.Exit(1)
		}
		appLogger.Info("Monthly overview written", "path", path, "records", len(records))
		return
	}

	if !*skipFiling {
		filed, err := ledgerApp.FileGapWarnings(ctx)
		if err != nil {
			appLogger.Error("Failed to file gap warnings", "error", err)
			os.Exit(1)
		}
		appLogger.Info("Gap warnings filed", "count", filed)
	}

	gaps, err := ledgerApp.DetectGaps(ctx)
	if err != nil {
		appLogger.Error("Gap detection failed", "error", err)
		os.Exit(1)
	}

	path, err := reporting.WriteGapReport(gaps, cfg.ReportOutputDir)
	if err != nil {
		appLogger.Error("Failed to write gap report", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Gap report written", "path", path, "gaps", len(gaps))
}
