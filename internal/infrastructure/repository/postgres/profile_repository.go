package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
	qb "github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/querybuilder"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile analysis.TeamProfile) error {
	if profile.TeamID <= 0 {
		return fmt.Errorf("team id is required")
	}

	model := teamProfileTableModel{
		TeamID:                   profile.TeamID,
		TeamName:                 profile.TeamName,
		LeagueID:                 profile.LeagueID,
		Season:                   profile.Season,
		MatchesAnalyzed:          profile.MatchesAnalyzed,
		MatchesWithDetailedStats: profile.MatchesWithDetailedStats,
		GoalsScoredAvg:           profile.GoalsScoredAvg,
		GoalsConcededAvg:         profile.GoalsConcededAvg,
		GoalsScoredHomeAvg:       profile.GoalsScoredHomeAvg,
		GoalsConcededHomeAvg:     profile.GoalsConcededHomeAvg,
		GoalsScoredAwayAvg:       profile.GoalsScoredAwayAvg,
		GoalsConcededAwayAvg:     profile.GoalsConcededAwayAvg,
		Over05Pct:                profile.Over05Pct,
		Over15Pct:                profile.Over15Pct,
		Over25Pct:                profile.Over25Pct,
		Over35Pct:                profile.Over35Pct,
		BTTSPct:                  profile.BTTSPct,
		CleanSheetPct:            profile.CleanSheetPct,
		FailedToScorePct:         profile.FailedToScorePct,
		FirstHalfGoalPct:         profile.FirstHalfGoalPct,
		WinPct:                   profile.WinPct,
		FormPoints:               profile.FormPoints,
		CornersAvg:               profile.CornersAvg,
		CardsAvg:                 profile.CardsAvg,
		ShotsOnTargetAvg:         profile.ShotsOnTargetAvg,
		FoulsAvg:                 profile.FoulsAvg,
		CornersOverPct:           profile.CornersOverPct,
		CardsOverPct:             profile.CardsOverPct,
		ShotsOverPct:             profile.ShotsOverPct,
		LeagueRank:               profile.LeagueRank,
		LeagueSize:               profile.LeagueSize,
		GeneratedAt:              profile.GeneratedAt.UTC(),
	}

	query, args, err := qb.InsertModel("team_profiles", model, `ON CONFLICT (team_id)
DO UPDATE SET
    team_name = EXCLUDED.team_name,
    league_id = EXCLUDED.league_id,
    season = EXCLUDED.season,
    matches_analyzed = EXCLUDED.matches_analyzed,
    matches_with_detailed_stats = EXCLUDED.matches_with_detailed_stats,
    goals_scored_avg = EXCLUDED.goals_scored_avg,
    goals_conceded_avg = EXCLUDED.goals_conceded_avg,
    goals_scored_home_avg = EXCLUDED.goals_scored_home_avg,
    goals_conceded_home_avg = EXCLUDED.goals_conceded_home_avg,
    goals_scored_away_avg = EXCLUDED.goals_scored_away_avg,
    goals_conceded_away_avg = EXCLUDED.goals_conceded_away_avg,
    over_05_pct = EXCLUDED.over_05_pct,
    over_15_pct = EXCLUDED.over_15_pct,
    over_25_pct = EXCLUDED.over_25_pct,
    over_35_pct = EXCLUDED.over_35_pct,
    btts_pct = EXCLUDED.btts_pct,
    clean_sheet_pct = EXCLUDED.clean_sheet_pct,
    failed_to_score_pct = EXCLUDED.failed_to_score_pct,
    first_half_goal_pct = EXCLUDED.first_half_goal_pct,
    win_pct = EXCLUDED.win_pct,
    form_points = EXCLUDED.form_points,
    corners_avg = EXCLUDED.corners_avg,
    cards_avg = EXCLUDED.cards_avg,
    shots_on_target_avg = EXCLUDED.shots_on_target_avg,
    fouls_avg = EXCLUDED.fouls_avg,
    corners_over_pct = EXCLUDED.corners_over_pct,
    cards_over_pct = EXCLUDED.cards_over_pct,
    shots_over_pct = EXCLUDED.shots_over_pct,
    league_rank = EXCLUDED.league_rank,
    league_size = EXCLUDED.league_size,
    generated_at = EXCLUDED.generated_at`)
	if err != nil {
		return fmt.Errorf("build upsert team profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team profile team_id=%d: %w", profile.TeamID, err)
	}

	return nil
}

func (r *ProfileRepository) GetProfile(ctx context.Context, teamID int64) (analysis.TeamProfile, bool, error) {
	query, args, err := qb.Select("*").From("team_profiles").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return analysis.TeamProfile{}, false, fmt.Errorf("build select team profile query: %w", err)
	}

	var row teamProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analysis.TeamProfile{}, false, nil
		}
		return analysis.TeamProfile{}, false, fmt.Errorf("select team profile team_id=%d: %w", teamID, err)
	}

	return analysis.TeamProfile{
		TeamID:                   row.TeamID,
		TeamName:                 row.TeamName,
		LeagueID:                 row.LeagueID,
		Season:                   row.Season,
		MatchesAnalyzed:          row.MatchesAnalyzed,
		MatchesWithDetailedStats: row.MatchesWithDetailedStats,
		GoalsScoredAvg:           row.GoalsScoredAvg,
		GoalsConcededAvg:         row.GoalsConcededAvg,
		GoalsScoredHomeAvg:       row.GoalsScoredHomeAvg,
		GoalsConcededHomeAvg:     row.GoalsConcededHomeAvg,
		GoalsScoredAwayAvg:       row.GoalsScoredAwayAvg,
		GoalsConcededAwayAvg:     row.GoalsConcededAwayAvg,
		Over05Pct:                row.Over05Pct,
		Over15Pct:                row.Over15Pct,
		Over25Pct:                row.Over25Pct,
		Over35Pct:                row.Over35Pct,
		BTTSPct:                  row.BTTSPct,
		CleanSheetPct:            row.CleanSheetPct,
		FailedToScorePct:         row.FailedToScorePct,
		FirstHalfGoalPct:         row.FirstHalfGoalPct,
		WinPct:                   row.WinPct,
		FormPoints:               row.FormPoints,
		CornersAvg:               row.CornersAvg,
		CardsAvg:                 row.CardsAvg,
		ShotsOnTargetAvg:         row.ShotsOnTargetAvg,
		FoulsAvg:                 row.FoulsAvg,
		CornersOverPct:           row.CornersOverPct,
		CardsOverPct:             row.CardsOverPct,
		ShotsOverPct:             row.ShotsOverPct,
		LeagueRank:               row.LeagueRank,
		LeagueSize:               row.LeagueSize,
		GeneratedAt:              row.GeneratedAt,
	}, true, nil
}
