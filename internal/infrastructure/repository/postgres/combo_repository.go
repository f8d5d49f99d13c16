package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
	qb "github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/querybuilder"
)

type ComboRepository struct {
	db *sqlx.DB
}

func NewComboRepository(db *sqlx.DB) *ComboRepository {
	return &ComboRepository{db: db}
}

func (r *ComboRepository) Upsert(ctx context.Context, c combo.ComboBet) error {
	if c.ID == "" {
		return fmt.Errorf("combo id is required")
	}

	legsJSON, err := sonic.Marshal(c.Legs)
	if err != nil {
		return fmt.Errorf("marshal combo legs id=%s: %w", c.ID, err)
	}

	model := comboTableModel{
		ID:                  c.ID,
		Legs:                string(legsJSON),
		TotalOdd:            c.TotalOdd,
		CombinedProbability: c.CombinedProbability,
		AvgConfidence:       c.AvgConfidence,
		CreatedAt:           c.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("combo_bets", model, `ON CONFLICT (id)
DO UPDATE SET
    legs = EXCLUDED.legs,
    total_odd = EXCLUDED.total_odd,
    combined_probability = EXCLUDED.combined_probability,
    avg_confidence = EXCLUDED.avg_confidence`)
	if err != nil {
		return fmt.Errorf("build upsert combo query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert combo id=%s: %w", c.ID, err)
	}

	return nil
}

func (r *ComboRepository) Get(ctx context.Context, id string) (combo.ComboBet, bool, error) {
	query, args, err := qb.Select("*").From("combo_bets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return combo.ComboBet{}, false, fmt.Errorf("build select combo query: %w", err)
	}

	var row comboTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return combo.ComboBet{}, false, nil
		}
		return combo.ComboBet{}, false, fmt.Errorf("select combo id=%s: %w", id, err)
	}

	var legs []combo.Leg
	if err := sonic.Unmarshal([]byte(row.Legs), &legs); err != nil {
		return combo.ComboBet{}, false, fmt.Errorf("unmarshal combo legs id=%s: %w", id, err)
	}

	return combo.ComboBet{
		ID:                  row.ID,
		Legs:                legs,
		TotalOdd:            row.TotalOdd,
		CombinedProbability: row.CombinedProbability,
		AvgConfidence:       row.AvgConfidence,
		CreatedAt:           row.CreatedAt,
	}, true, nil
}
