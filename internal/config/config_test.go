package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_FOOTBALL_KEY", "key-123")
	t.Setenv("LEAGUE_IDS", "39,71")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresProviderKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY", "")
	t.Setenv("LEAGUE_IDS", "39")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without API_FOOTBALL_KEY")
	}
}

func TestLoad_RequiresLeagueIDs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY", "key-123")
	t.Setenv("LEAGUE_IDS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without LEAGUE_IDS")
	}
}

func TestLoad_RejectsInvalidLeagueID(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY", "key-123")
	t.Setenv("LEAGUE_IDS", "39,abc")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric league id")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AnalysisInterval != 6*time.Hour {
		t.Fatalf("unexpected AnalysisInterval: %s", cfg.AnalysisInterval)
	}
	if cfg.AnalysisHorizon != 48*time.Hour {
		t.Fatalf("unexpected AnalysisHorizon: %s", cfg.AnalysisHorizon)
	}
	if cfg.SettlementInterval != 30*time.Minute {
		t.Fatalf("unexpected SettlementInterval: %s", cfg.SettlementInterval)
	}
	if cfg.DefaultStake != 100 {
		t.Fatalf("unexpected DefaultStake: %v", cfg.DefaultStake)
	}
	if cfg.HomeAdvantage != 1.0 {
		t.Fatalf("unexpected HomeAdvantage: %v", cfg.HomeAdvantage)
	}
	if cfg.EliteHomeAdvantage != 1.15 {
		t.Fatalf("unexpected EliteHomeAdvantage: %v", cfg.EliteHomeAdvantage)
	}
	if len(cfg.LeagueIDs) != 2 || cfg.LeagueIDs[0] != 39 || cfg.LeagueIDs[1] != 71 {
		t.Fatalf("unexpected LeagueIDs: %v", cfg.LeagueIDs)
	}
}

func TestLoad_EliteLeagueLookup(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ELITE_LEAGUE_IDS", "39,140")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.IsEliteLeague(39) {
		t.Fatalf("expected league 39 to be elite")
	}
	if cfg.IsEliteLeague(71) {
		t.Fatalf("expected league 71 to not be elite")
	}
}

func TestLoad_RejectsNonPositiveIntervals(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SETTLEMENT_INTERVAL", "-5m")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative SETTLEMENT_INTERVAL")
	}
}
