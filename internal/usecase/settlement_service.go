package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/bet"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/market"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/resilience"
)

type SettlementService struct {
	betRepo  bet.Repository
	provider MatchDataProvider
	logger   *logging.Logger

	// sweepFlight collapses overlapping sweeps into one so a slow run
	// is never doubled by the next tick.
	sweepFlight resilience.SingleFlight
	now         func() time.Time
}

func NewSettlementService(betRepo bet.Repository, provider MatchDataProvider, logger *logging.Logger) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		betRepo:  betRepo,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Settle resolves one bet against the final results of the fixtures it
// references. OutcomeUnresolvable with ErrUnclassifiableMarket or
// ErrIncompleteComboBinding means the bet needs manual review; with a
// nil error it simply is not decidable yet and stays pending.
func (s *SettlementService) Settle(b bet.Bet, results map[int64]fixture.MatchResult) (bet.Outcome, error) {
	if b.Kind == bet.KindCombo {
		return s.settleCombo(b, results)
	}
	return s.settleSingle(b, results)
}

func (s *SettlementService) settleSingle(b bet.Bet, results map[int64]fixture.MatchResult) (bet.Outcome, error) {
	if b.FixtureID <= 0 {
		return bet.OutcomeUnresolvable, ErrIncompleteComboBinding
	}
	result, ok := results[b.FixtureID]
	if !ok {
		return bet.OutcomeUnresolvable, nil
	}

	spec, ok := market.ClassifyForFixture(b.Market, b.HomeTeam, b.AwayTeam)
	if !ok {
		return bet.OutcomeUnresolvable, ErrUnclassifiableMarket
	}
	won, ok := Evaluate(spec, result)
	if !ok {
		return bet.OutcomeUnresolvable, ErrUnclassifiableMarket
	}
	if won {
		return bet.OutcomeGreen, nil
	}
	return bet.OutcomeRed, nil
}

// settleCombo requires every leg to carry a fixture binding: a leg
// without one can never default to another fixture's result, so the
// whole combo refuses to settle. Legs are evaluated independently; the
// first red short-circuits.
func (s *SettlementService) settleCombo(b bet.Bet, results map[int64]fixture.MatchResult) (bet.Outcome, error) {
	if len(b.Legs) == 0 {
		return bet.OutcomeUnresolvable, ErrIncompleteComboBinding
	}
	for _, leg := range b.Legs {
		if leg.FixtureID <= 0 {
			return bet.OutcomeUnresolvable, ErrIncompleteComboBinding
		}
	}

	pendingLeg := false
	for _, leg := range b.Legs {
		result, ok := results[leg.FixtureID]
		if !ok {
			pendingLeg = true
			continue
		}
		spec, ok := market.ClassifyForFixture(leg.Market, leg.HomeTeam, leg.AwayTeam)
		if !ok {
			return bet.OutcomeUnresolvable, ErrUnclassifiableMarket
		}
		won, ok := Evaluate(spec, result)
		if !ok {
			return bet.OutcomeUnresolvable, ErrUnclassifiableMarket
		}
		if !won {
			return bet.OutcomeRed, nil
		}
	}
	if pendingLeg {
		return bet.OutcomeUnresolvable, nil
	}
	return bet.OutcomeGreen, nil
}

// Evaluate applies a canonical market spec to a final match result.
// Over/Under comparisons are strict: landing exactly on the line is
// never a win. The second return is false when the spec cannot be
// evaluated against the available result fields.
func Evaluate(spec market.Spec, result fixture.MatchResult) (won, ok bool) {
	switch spec.Category {
	case market.CategoryGoals:
		actual := 0
		switch spec.Period {
		case market.PeriodFirstHalf:
			actual = result.FirstHalfGoals()
		case market.PeriodSecondHalf:
			actual = result.SecondHalfGoals()
		default:
			actual = result.TotalGoals()
		}
		return compareLine(spec.Comparator, float64(actual), spec.Line), true
	case market.CategoryCorners:
		if spec.Period != market.PeriodFullTime {
			return false, false
		}
		return compareLine(spec.Comparator, float64(result.TotalCorners()), spec.Line), true
	case market.CategoryCards:
		if spec.Period != market.PeriodFullTime {
			return false, false
		}
		return compareLine(spec.Comparator, float64(result.TotalCards()), spec.Line), true
	case market.CategoryShots:
		if spec.Period != market.PeriodFullTime {
			return false, false
		}
		return compareLine(spec.Comparator, float64(result.TotalShotsOnTarget()), spec.Line), true
	case market.CategoryBTTS:
		if spec.Side == market.SideNo {
			return !result.BothScored(), true
		}
		return result.BothScored(), true
	case market.CategoryMatchResult:
		switch spec.Side {
		case market.SideHome:
			return result.HomeGoals > result.AwayGoals, true
		case market.SideAway:
			return result.AwayGoals > result.HomeGoals, true
		case market.SideDraw:
			return result.HomeGoals == result.AwayGoals, true
		}
		return false, false
	case market.CategoryDoubleChance:
		if spec.Side == market.SideAway {
			return result.AwayGoals >= result.HomeGoals, true
		}
		return result.HomeGoals >= result.AwayGoals, true
	default:
		return false, false
	}
}

func compareLine(comparator market.Comparator, actual, line float64) bool {
	if comparator == market.ComparatorUnder {
		return actual < line
	}
	return actual > line
}

type SweepResult struct {
	Scanned      int `json:"scanned"`
	Settled      int `json:"settled"`
	Green        int `json:"green"`
	Red          int `json:"red"`
	StillPending int `json:"still_pending"`
	Flagged      int `json:"flagged"`
	Failed       int `json:"failed"`
}

// RunSweep scans all pending bets and attempts to resolve each one.
// Failures are isolated per bet: a fetch error for one bet never
// aborts the rest, the bet just stays pending for the next sweep.
func (s *SettlementService) RunSweep(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.RunSweep")
	defer span.End()

	value, err, _ := s.sweepFlight.Do("settlement:sweep", func() (any, error) {
		return s.runSweepOnce(ctx)
	})
	if err != nil {
		return SweepResult{}, err
	}
	out, _ := value.(SweepResult)
	return out, nil
}

func (s *SettlementService) runSweepOnce(ctx context.Context) (SweepResult, error) {
	pending, err := s.betRepo.ListPending(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list pending bets: %w", err)
	}

	out := SweepResult{Scanned: len(pending)}
	resultCache := make(map[int64]fixture.MatchResult)
	missing := make(map[int64]struct{})

	for _, b := range pending {
		outcome, settleErr := s.settleOne(ctx, b, resultCache, missing)
		switch {
		case settleErr != nil && (errors.Is(settleErr, ErrUnclassifiableMarket) || errors.Is(settleErr, ErrIncompleteComboBinding)):
			out.Flagged++
			if err := s.betRepo.MarkNeedsReview(ctx, b.ID); err != nil {
				s.logger.Warn("mark bet for review", "bet_id", b.ID, "error", err)
			}
		case settleErr != nil:
			out.Failed++
			s.logger.Warn("settle bet", "bet_id", b.ID, "error", settleErr)
		case outcome == bet.OutcomeUnresolvable:
			out.StillPending++
		default:
			out.Settled++
			if outcome == bet.OutcomeGreen {
				out.Green++
			} else {
				out.Red++
			}
		}
	}

	return out, nil
}

func (s *SettlementService) settleOne(ctx context.Context, b bet.Bet, resultCache map[int64]fixture.MatchResult, missing map[int64]struct{}) (bet.Outcome, error) {
	fixtureIDs, bound := b.FixtureIDs()
	if !bound {
		return bet.OutcomeUnresolvable, ErrIncompleteComboBinding
	}

	results := make(map[int64]fixture.MatchResult, len(fixtureIDs))
	for _, fixtureID := range fixtureIDs {
		if result, ok := resultCache[fixtureID]; ok {
			results[fixtureID] = result
			continue
		}
		if _, ok := missing[fixtureID]; ok {
			continue
		}
		result, ok, err := s.provider.FetchFinalResult(ctx, fixtureID)
		if err != nil {
			return bet.OutcomeUnresolvable, fmt.Errorf("fetch final result fixture=%d: %w", fixtureID, err)
		}
		if !ok {
			missing[fixtureID] = struct{}{}
			continue
		}
		resultCache[fixtureID] = result
		results[fixtureID] = result
	}

	outcome, err := s.Settle(b, results)
	if err != nil || outcome == bet.OutcomeUnresolvable {
		return outcome, err
	}

	if err := s.apply(ctx, b, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// apply persists a terminal outcome and propagates it to every user
// copy of the bet, recomputing each user's profit from their own stake
// and entry odd. Already-settled rows are left untouched.
func (s *SettlementService) apply(ctx context.Context, b bet.Bet, outcome bet.Outcome) error {
	status := bet.StatusGreen
	if outcome == bet.OutcomeRed {
		status = bet.StatusRed
	}
	settledAt := s.now().UTC()

	applied, err := s.betRepo.ApplySettlement(ctx, b.ID, bet.Settlement{
		Status:    status,
		Profit:    bet.Profit(outcome, b.Odd, b.Stake),
		SettledAt: settledAt,
	})
	if err != nil {
		return fmt.Errorf("apply settlement bet=%s: %w", b.ID, err)
	}
	if !applied {
		// Another sweep already settled this bet.
		return nil
	}

	userBets, err := s.betRepo.ListUserBetsByBet(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("list user bets bet=%s: %w", b.ID, err)
	}
	for _, ub := range userBets {
		if _, err := s.betRepo.ApplyUserBetSettlement(ctx, ub.ID, bet.Settlement{
			Status:    status,
			Profit:    bet.Profit(outcome, ub.EntryOdd, ub.Stake),
			SettledAt: settledAt,
		}); err != nil {
			s.logger.Warn("apply user bet settlement", "user_bet_id", ub.ID, "error", err)
		}
	}

	s.logger.Info("bet settled",
		"bet_id", b.ID,
		"kind", string(b.Kind),
		"status", string(status),
		"user_bets", len(userBets),
	)
	return nil
}
