package bet

import (
	"context"
	"time"
)

// Settlement is the persisted result of a settlement attempt.
type Settlement struct {
	Status    Status
	Profit    float64
	SettledAt time.Time
}

type Repository interface {
	Create(ctx context.Context, b Bet) error
	Get(ctx context.Context, id string) (Bet, bool, error)
	ListPending(ctx context.Context) ([]Bet, error)

	// ApplySettlement transitions a pending bet to a terminal status.
	// It must be a no-op (returning false) when the bet is already
	// settled, so concurrent sweeps stay idempotent.
	ApplySettlement(ctx context.Context, id string, s Settlement) (bool, error)

	MarkNeedsReview(ctx context.Context, id string) error

	ListUserBetsByBet(ctx context.Context, betID string) ([]UserBet, error)
	ApplyUserBetSettlement(ctx context.Context, id string, s Settlement) (bool, error)
}
