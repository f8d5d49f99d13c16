package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
	qb "github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// UpsertBatch writes all predictions in one transaction so a partially
// failed analysis run never leaves a half-written fixture behind.
func (r *PredictionRepository) UpsertBatch(ctx context.Context, predictions []prediction.MarketPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert predictions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range predictions {
		if p.ID == "" {
			return fmt.Errorf("prediction id is required")
		}

		rationaleJSON, err := marshalRationale(p.Rationale)
		if err != nil {
			return fmt.Errorf("marshal prediction rationale id=%s: %w", p.ID, err)
		}

		model := predictionTableModel{
			ID:            p.ID,
			FixtureID:     p.FixtureID,
			LeagueID:      p.LeagueID,
			HomeTeam:      p.HomeTeam,
			AwayTeam:      p.AwayTeam,
			KickoffAt:     p.KickoffAt.UTC(),
			Market:        p.Market,
			Outcome:       p.Outcome,
			Probability:   p.Probability,
			Confidence:    p.Confidence,
			SuggestedOdd:  p.SuggestedOdd,
			ExpectedValue: p.ExpectedValue,
			BookmakerOdd:  p.BookmakerOdd,
			Rationale:     rationaleJSON,
			CreatedAt:     p.CreatedAt.UTC(),
		}

		query, args, err := qb.InsertModel("predictions", model, `ON CONFLICT (id)
DO UPDATE SET
    probability = EXCLUDED.probability,
    confidence = EXCLUDED.confidence,
    suggested_odd = EXCLUDED.suggested_odd,
    expected_value = EXCLUDED.expected_value,
    bookmaker_odd = EXCLUDED.bookmaker_odd,
    rationale = EXCLUDED.rationale`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction id=%s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}

	return nil
}

func (r *PredictionRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]prediction.MarketPrediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("confidence DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions fixture_id=%d: %w", fixtureID, err)
	}

	out := make([]prediction.MarketPrediction, 0, len(rows))
	for _, row := range rows {
		rationale, err := unmarshalRationale(row.Rationale)
		if err != nil {
			return nil, fmt.Errorf("unmarshal prediction rationale id=%s: %w", row.ID, err)
		}

		out = append(out, prediction.MarketPrediction{
			ID:            row.ID,
			FixtureID:     row.FixtureID,
			LeagueID:      row.LeagueID,
			HomeTeam:      row.HomeTeam,
			AwayTeam:      row.AwayTeam,
			KickoffAt:     row.KickoffAt,
			Market:        row.Market,
			Outcome:       row.Outcome,
			Probability:   row.Probability,
			Confidence:    row.Confidence,
			SuggestedOdd:  row.SuggestedOdd,
			ExpectedValue: row.ExpectedValue,
			BookmakerOdd:  row.BookmakerOdd,
			Rationale:     rationale,
			CreatedAt:     row.CreatedAt,
		})
	}

	return out, nil
}

func marshalRationale(rationale []string) (string, error) {
	if len(rationale) == 0 {
		return "[]", nil
	}
	raw, err := sonic.Marshal(rationale)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalRationale(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []string
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
