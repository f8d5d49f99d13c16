package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/app"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/config"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	engine, err := app.NewEngine(cfg, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("engine starting",
		"leagues", len(cfg.LeagueIDs),
		"analysis_interval", cfg.AnalysisInterval.String(),
		"settlement_interval", cfg.SettlementInterval.String(),
	)

	// Both pipelines run once at startup, then on their own tickers.
	engine.AnalyzeAll(ctx)
	engine.SettleAll(ctx)

	analysisTicker := time.NewTicker(cfg.AnalysisInterval)
	defer analysisTicker.Stop()
	settlementTicker := time.NewTicker(cfg.SettlementInterval)
	defer settlementTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("engine stopping")
			return
		case <-analysisTicker.C:
			engine.AnalyzeAll(ctx)
		case <-settlementTicker.C:
			engine.SettleAll(ctx)
		}
	}
}
