package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/bet"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
	qb "github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) Create(ctx context.Context, b bet.Bet) error {
	if b.ID == "" {
		return fmt.Errorf("bet id is required")
	}

	legsJSON, err := marshalLegs(b.Legs)
	if err != nil {
		return fmt.Errorf("marshal bet legs id=%s: %w", b.ID, err)
	}

	model := betTableModel{
		ID:          b.ID,
		Kind:        string(b.Kind),
		FixtureID:   b.FixtureID,
		HomeTeam:    b.HomeTeam,
		AwayTeam:    b.AwayTeam,
		KickoffAt:   b.KickoffAt.UTC(),
		Market:      b.Market,
		Outcome:     b.Outcome,
		ComboID:     b.ComboID,
		Legs:        legsJSON,
		Odd:         b.Odd,
		Stake:       b.Stake,
		Status:      string(b.Status),
		Profit:      b.Profit,
		NeedsReview: b.NeedsReview,
		CreatedAt:   b.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("bets", model, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert bet query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bet id=%s: %w", b.ID, err)
	}

	return nil
}

func (r *BetRepository) Get(ctx context.Context, id string) (bet.Bet, bool, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build select bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("select bet id=%s: %w", id, err)
	}

	mapped, err := mapBetRow(row)
	if err != nil {
		return bet.Bet{}, false, err
	}
	return mapped, true, nil
}

func (r *BetRepository) ListPending(ctx context.Context) ([]bet.Bet, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(qb.EqLiteral("status", string(bet.StatusPending))).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pending bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		mapped, err := mapBetRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}

	return out, nil
}

// ApplySettlement is guarded by the pending status so a bet settles at
// most once even when sweeps overlap.
func (r *BetRepository) ApplySettlement(ctx context.Context, id string, s bet.Settlement) (bool, error) {
	query, args, err := qb.Update("bets").
		Set("status", string(s.Status)).
		Set("profit", s.Profit).
		Set("settled_at", s.SettledAt.UTC()).
		Set("needs_review", false).
		Where(
			qb.Eq("id", id),
			qb.EqLiteral("status", string(bet.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build settle bet query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("settle bet id=%s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settle bet rows affected id=%s: %w", id, err)
	}

	return affected > 0, nil
}

func (r *BetRepository) MarkNeedsReview(ctx context.Context, id string) error {
	query, args, err := qb.Update("bets").
		Set("needs_review", true).
		Where(
			qb.Eq("id", id),
			qb.EqLiteral("status", string(bet.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark needs review query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark bet needs review id=%s: %w", id, err)
	}

	return nil
}

func (r *BetRepository) ListUserBetsByBet(ctx context.Context, betID string) ([]bet.UserBet, error) {
	query, args, err := qb.Select("*").From("user_bets").
		Where(qb.Eq("bet_id", betID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select user bets query: %w", err)
	}

	var rows []userBetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select user bets bet_id=%s: %w", betID, err)
	}

	out := make([]bet.UserBet, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.UserBet{
			ID:        row.ID,
			BetID:     row.BetID,
			UserID:    row.UserID,
			Stake:     row.Stake,
			EntryOdd:  row.EntryOdd,
			Status:    bet.Status(row.Status),
			Profit:    row.Profit,
			SettledAt: nullTimeToPtr(row.SettledAt),
		})
	}

	return out, nil
}

func (r *BetRepository) ApplyUserBetSettlement(ctx context.Context, id string, s bet.Settlement) (bool, error) {
	query, args, err := qb.Update("user_bets").
		Set("status", string(s.Status)).
		Set("profit", s.Profit).
		Set("settled_at", s.SettledAt.UTC()).
		Where(
			qb.Eq("id", id),
			qb.EqLiteral("status", string(bet.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build settle user bet query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("settle user bet id=%s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settle user bet rows affected id=%s: %w", id, err)
	}

	return affected > 0, nil
}

func mapBetRow(row betTableModel) (bet.Bet, error) {
	legs, err := unmarshalLegs(row.Legs)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("unmarshal bet legs id=%s: %w", row.ID, err)
	}

	return bet.Bet{
		ID:          row.ID,
		Kind:        bet.Kind(row.Kind),
		FixtureID:   row.FixtureID,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		KickoffAt:   row.KickoffAt,
		Market:      row.Market,
		Outcome:     row.Outcome,
		ComboID:     row.ComboID,
		Legs:        legs,
		Odd:         row.Odd,
		Stake:       row.Stake,
		Status:      bet.Status(row.Status),
		Profit:      row.Profit,
		NeedsReview: row.NeedsReview,
		SettledAt:   nullTimeToPtr(row.SettledAt),
		CreatedAt:   row.CreatedAt,
	}, nil
}

func marshalLegs(legs []combo.Leg) (string, error) {
	if len(legs) == 0 {
		return "[]", nil
	}
	raw, err := sonic.Marshal(legs)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalLegs(raw string) ([]combo.Leg, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []combo.Leg
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
