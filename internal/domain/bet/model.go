package bet

import (
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
)

type Kind string

const (
	KindSingle Kind = "SINGLE"
	KindCombo  Kind = "COMBO"
)

// Status is the lifecycle state of a published bet. Green and Red are
// terminal; settling an already settled bet is a no-op.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusGreen   Status = "GREEN"
	StatusRed     Status = "RED"
)

// Outcome is the result of one settlement attempt. Unresolvable means
// the bet stays pending and is flagged for manual review; it never
// auto-resolves to a loss.
type Outcome string

const (
	OutcomeGreen        Outcome = "GREEN"
	OutcomeRed          Outcome = "RED"
	OutcomeUnresolvable Outcome = "UNRESOLVABLE"
)

// Bet is one published tip, single or combo. Combo bets embed their
// leg snapshots so settlement needs no other lookup.
type Bet struct {
	ID   string
	Kind Kind

	FixtureID int64
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time

	Market  string
	Outcome string

	ComboID string
	Legs    []combo.Leg

	Odd   float64
	Stake float64

	Status      Status
	Profit      float64
	NeedsReview bool
	SettledAt   *time.Time

	CreatedAt time.Time
}

// UserBet is one user's copy of a published bet, settled from the
// user's own stake and entry odd.
type UserBet struct {
	ID     string
	BetID  string
	UserID string

	Stake    float64
	EntryOdd float64

	Status    Status
	Profit    float64
	SettledAt *time.Time
}

// Profit computes the payout delta of a settled bet: (odd-1)*stake on
// green, -stake on red.
func Profit(outcome Outcome, odd, stake float64) float64 {
	switch outcome {
	case OutcomeGreen:
		return (odd - 1) * stake
	case OutcomeRed:
		return -stake
	default:
		return 0
	}
}

// FixtureIDs returns the distinct fixture ids a bet depends on. The
// second return is false when any leg is missing its binding.
func (b Bet) FixtureIDs() ([]int64, bool) {
	if b.Kind == KindSingle {
		if b.FixtureID <= 0 {
			return nil, false
		}
		return []int64{b.FixtureID}, true
	}

	seen := make(map[int64]struct{}, len(b.Legs))
	out := make([]int64, 0, len(b.Legs))
	for _, leg := range b.Legs {
		if leg.FixtureID <= 0 {
			return nil, false
		}
		if _, ok := seen[leg.FixtureID]; ok {
			continue
		}
		seen[leg.FixtureID] = struct{}{}
		out = append(out, leg.FixtureID)
	}
	return out, len(out) > 0
}
