package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/bet"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
)

type BetRepository struct {
	mu       sync.RWMutex
	bets     map[string]bet.Bet
	userBets map[string]bet.UserBet
}

func NewBetRepository() *BetRepository {
	return &BetRepository{
		bets:     make(map[string]bet.Bet),
		userBets: make(map[string]bet.UserBet),
	}
}

func (r *BetRepository) Create(_ context.Context, b bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bets[b.ID]; exists {
		return nil
	}
	r.bets[b.ID] = cloneBet(b)
	return nil
}

func (r *BetRepository) Get(_ context.Context, id string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bets[id]
	if !ok {
		return bet.Bet{}, false, nil
	}
	return cloneBet(b), true, nil
}

func (r *BetRepository) ListPending(_ context.Context) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, b := range r.bets {
		if b.Status == bet.StatusPending {
			out = append(out, cloneBet(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BetRepository) ApplySettlement(_ context.Context, id string, s bet.Settlement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bets[id]
	if !ok {
		return false, fmt.Errorf("bet %s not found", id)
	}
	if b.Status != bet.StatusPending {
		return false, nil
	}

	settledAt := s.SettledAt
	b.Status = s.Status
	b.Profit = s.Profit
	b.NeedsReview = false
	b.SettledAt = &settledAt
	r.bets[id] = b
	return true, nil
}

func (r *BetRepository) MarkNeedsReview(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bets[id]
	if !ok {
		return fmt.Errorf("bet %s not found", id)
	}
	if b.Status != bet.StatusPending {
		return nil
	}
	b.NeedsReview = true
	r.bets[id] = b
	return nil
}

func (r *BetRepository) ListUserBetsByBet(_ context.Context, betID string) ([]bet.UserBet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.UserBet, 0)
	for _, ub := range r.userBets {
		if ub.BetID == betID {
			out = append(out, ub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BetRepository) ApplyUserBetSettlement(_ context.Context, id string, s bet.Settlement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ub, ok := r.userBets[id]
	if !ok {
		return false, fmt.Errorf("user bet %s not found", id)
	}
	if ub.Status != bet.StatusPending {
		return false, nil
	}

	settledAt := s.SettledAt
	ub.Status = s.Status
	ub.Profit = s.Profit
	ub.SettledAt = &settledAt
	r.userBets[id] = ub
	return true, nil
}

// AddUserBet registers a user's copy of a published bet. Used by
// seeding and tests.
func (r *BetRepository) AddUserBet(ub bet.UserBet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userBets[ub.ID] = ub
}

func cloneBet(b bet.Bet) bet.Bet {
	out := b
	out.Legs = append([]combo.Leg(nil), b.Legs...)
	if b.SettledAt != nil {
		settledAt := *b.SettledAt
		out.SettledAt = &settledAt
	}
	return out
}
