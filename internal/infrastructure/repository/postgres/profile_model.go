package postgres

import "time"

type teamProfileTableModel struct {
	TeamID   int64  `db:"team_id"`
	TeamName string `db:"team_name"`
	LeagueID int64  `db:"league_id"`
	Season   int    `db:"season"`

	MatchesAnalyzed          int `db:"matches_analyzed"`
	MatchesWithDetailedStats int `db:"matches_with_detailed_stats"`

	GoalsScoredAvg       float64 `db:"goals_scored_avg"`
	GoalsConcededAvg     float64 `db:"goals_conceded_avg"`
	GoalsScoredHomeAvg   float64 `db:"goals_scored_home_avg"`
	GoalsConcededHomeAvg float64 `db:"goals_conceded_home_avg"`
	GoalsScoredAwayAvg   float64 `db:"goals_scored_away_avg"`
	GoalsConcededAwayAvg float64 `db:"goals_conceded_away_avg"`

	Over05Pct float64 `db:"over_05_pct"`
	Over15Pct float64 `db:"over_15_pct"`
	Over25Pct float64 `db:"over_25_pct"`
	Over35Pct float64 `db:"over_35_pct"`

	BTTSPct          float64 `db:"btts_pct"`
	CleanSheetPct    float64 `db:"clean_sheet_pct"`
	FailedToScorePct float64 `db:"failed_to_score_pct"`
	FirstHalfGoalPct float64 `db:"first_half_goal_pct"`
	WinPct           float64 `db:"win_pct"`

	FormPoints int `db:"form_points"`

	CornersAvg       float64 `db:"corners_avg"`
	CardsAvg         float64 `db:"cards_avg"`
	ShotsOnTargetAvg float64 `db:"shots_on_target_avg"`
	FoulsAvg         float64 `db:"fouls_avg"`

	CornersOverPct float64 `db:"corners_over_pct"`
	CardsOverPct   float64 `db:"cards_over_pct"`
	ShotsOverPct   float64 `db:"shots_over_pct"`

	LeagueRank int `db:"league_rank"`
	LeagueSize int `db:"league_size"`

	GeneratedAt time.Time `db:"generated_at"`
}
