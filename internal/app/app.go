package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/oficialtruesignal-bit/true-signal-sub000/external/apifootball"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/config"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/infrastructure/repository/postgres"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/cache"
	idgen "github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/id"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/resilience"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/usecase"
)

// Engine bundles the analysis and settlement pipelines behind the two
// entry points the runner ticks on.
type Engine struct {
	cfg    config.Config
	logger *logging.Logger

	analysisSvc      *usecase.AnalysisService
	eliteAnalysisSvc *usecase.AnalysisService
	settlementSvc    *usecase.SettlementService

	db *sqlx.DB
}

func NewEngine(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:         cfg.APIFootballBaseURL,
		Token:           cfg.APIFootballKey,
		Timeout:         cfg.APIFootballTimeout,
		MaxRetries:      cfg.APIFootballMaxRetries,
		StatsRatePerSec: cfg.APIFootballStatsRatePerSec,
		Logger:          logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	profileRepo := postgres.NewProfileRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)
	comboRepo := postgres.NewComboRepository(db)
	betRepo := postgres.NewBetRepository(db)

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// entries expire immediately, so every lookup misses
		cacheTTL = time.Nanosecond
	}
	store := cache.NewStore(cacheTTL)

	generator := idgen.NewRandomGenerator()

	profileSvc := usecase.NewProfileService(profileRepo)
	comboSvc := usecase.NewComboService(comboRepo, generator, logger)

	analysisCfg := usecase.AnalysisConfig{
		Workers:      cfg.AnalysisWorkers,
		DefaultStake: cfg.DefaultStake,
	}

	standardPredictionSvc := usecase.NewPredictionService(generator, logger, usecase.PredictionOptions{
		HomeAdvantage: cfg.HomeAdvantage,
	})
	elitePredictionSvc := usecase.NewPredictionService(generator, logger, usecase.PredictionOptions{
		HomeAdvantage: cfg.EliteHomeAdvantage,
	})

	analysisSvc := usecase.NewAnalysisService(
		provider, profileSvc, standardPredictionSvc, comboSvc,
		predictionRepo, betRepo, store, generator, logger, analysisCfg,
	)
	eliteAnalysisSvc := usecase.NewAnalysisService(
		provider, profileSvc, elitePredictionSvc, comboSvc,
		predictionRepo, betRepo, store, generator, logger, analysisCfg,
	)

	settlementSvc := usecase.NewSettlementService(betRepo, provider, logger)

	return &Engine{
		cfg:              cfg,
		logger:           logger,
		analysisSvc:      analysisSvc,
		eliteAnalysisSvc: eliteAnalysisSvc,
		settlementSvc:    settlementSvc,
		db:               db,
	}, nil
}

// AnalyzeAll runs one analysis pass over every configured league.
// A failing league does not stop the others.
func (e *Engine) AnalyzeAll(ctx context.Context) {
	for _, leagueID := range e.cfg.LeagueIDs {
		svc := e.analysisSvc
		if e.cfg.IsEliteLeague(leagueID) {
			svc = e.eliteAnalysisSvc
		}

		result, err := svc.AnalyzeLeague(ctx, leagueID, e.cfg.AnalysisHorizon)
		if err != nil {
			e.logger.ErrorContext(ctx, "league analysis failed", "league_id", leagueID, "error", err)
			continue
		}
		e.logger.InfoContext(ctx, "league analysis finished",
			"league_id", leagueID,
			"fixtures", result.Fixtures,
			"analyzed", result.Analyzed,
			"skipped", result.Skipped,
			"predictions", result.Predictions,
			"combos", result.Combos,
			"single_bets", result.SingleBets,
		)
	}
}

// SettleAll runs one settlement sweep over every pending bet.
func (e *Engine) SettleAll(ctx context.Context) {
	result, err := e.settlementSvc.RunSweep(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "settlement sweep failed", "error", err)
		return
	}
	e.logger.InfoContext(ctx, "settlement sweep finished",
		"scanned", result.Scanned,
		"settled", result.Settled,
		"green", result.Green,
		"red", result.Red,
		"still_pending", result.StillPending,
		"flagged", result.Flagged,
		"failed", result.Failed,
	)
}

func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
