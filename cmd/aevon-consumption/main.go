package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	corecfg "github.com/aevon-lab/aevon-consumption/internal/core/config"
	"github.com/aevon-lab/aevon-consumption/internal/core/consumption"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage/postgres"
	"github.com/aevon-lab/aevon-consumption/internal/ingestion"
	"github.com/aevon-lab/aevon-consumption/internal/metrics"
	"github.com/aevon-lab/aevon-consumption/internal/migrations"
	"github.com/aevon-lab/aevon-consumption/internal/projection"
	"github.com/aevon-lab/aevon-consumption/internal/refresher"
	"github.com/aevon-lab/aevon-consumption/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "aevon-consumption.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"locale", cfg.Consumption.Locale,
		"gate_policy", cfg.Consumption.GatePolicy,
		"reports", len(cfg.ReportLoading.Reports),
	)

	// 2. Initialize Storage (PostgreSQL)
	db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	store, err := postgres.NewAdapter(db)
	if err != nil {
		slog.Error("Failed to prepare record store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if flag.Arg(0) == "import" {
		if err := runImport(ctx, store, flag.Args()[1:]); err != nil {
			slog.Error("Import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// 3. Initialize Calculator
	locale, err := period.LookupLocale(cfg.Consumption.Locale)
	if err != nil {
		slog.Error("Invalid locale", "error", err)
		os.Exit(1)
	}
	calc := consumption.NewCalculator(period.NewResolver(locale, time.Now), cfg.Consumption.Options())

	// 4. Initialize Projection (query API)
	m := metrics.New(prometheus.NewRegistry())
	projectionSvc := projection.NewService(store, calc, cfg.ReportLoading.Repository, projection.Options{
		CacheSize: cfg.Refresh.CacheSize,
		Metrics:   m,
	})

	// 5. Initialize Ingestion (record upserts invalidate cached snapshots)
	ingestionSvc := ingestion.NewService(store, projectionSvc, cfg.Server.MaxBodySizeMB)

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode, m)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 7. Start daily refresher in background if enabled
	if cfg.Refresh.Enabled && len(cfg.Refresh.Sensors) > 0 {
		daily := refresher.New(refresher.SnapshotJob(projectionSvc, cfg.Refresh.Sensors, cfg.Consumption.Workers, m))
		go func() {
			if err := daily.Start(ctx); err != nil {
				slog.Error("Refresher stopped with error", "error", err)
			}
		}()
		slog.Info("Daily refresher initialized", "sensors", len(cfg.Refresh.Sensors))
	} else {
		slog.Info("Daily refresher disabled by config")
	}

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
