package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/id"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
)

const (
	// comboMinConfidence and comboMinOdd gate combo eligibility.
	comboMinConfidence = 85.0
	comboMinOdd        = 1.40
)

type ComboService struct {
	comboRepo combo.Repository
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewComboService(comboRepo combo.Repository, idGen id.Generator, logger *logging.Logger) *ComboService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ComboService{
		comboRepo: comboRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

type BuildCombosResult struct {
	Combos []combo.ComboBet

	// Standalone holds the predictions not consumed by any combo;
	// they remain eligible for single-bet publication.
	Standalone []prediction.MarketPrediction
}

// Build groups the prediction pool into same-fixture and cross-fixture
// combos. A prediction consumed by a combo is moved out of the
// standalone pool; the transfer is a drain, so a pick can never end up
// both inside a combo and published standalone.
func (s *ComboService) Build(ctx context.Context, predictions []prediction.MarketPrediction) (BuildCombosResult, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ComboService.Build")
	defer span.End()

	pool := make([]prediction.MarketPrediction, 0, len(predictions))
	rest := make([]prediction.MarketPrediction, 0, len(predictions))
	for _, pred := range predictions {
		if pred.Confidence >= comboMinConfidence && pred.SuggestedOdd >= comboMinOdd && pred.FixtureID > 0 {
			pool = append(pool, pred)
			continue
		}
		rest = append(rest, pred)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Confidence > pool[j].Confidence
	})

	combos := make([]combo.ComboBet, 0, 4)

	sameFixture := s.buildSameFixture(&pool)
	combos = append(combos, sameFixture...)
	crossFixture := s.buildCrossFixture(&pool)
	combos = append(combos, crossFixture...)

	// Whatever survived the drain goes back to the standalone pool.
	standalone := append(rest, pool...)
	sort.SliceStable(standalone, func(i, j int) bool {
		return standalone[i].Confidence > standalone[j].Confidence
	})

	return BuildCombosResult{Combos: combos, Standalone: standalone}, nil
}

func (s *ComboService) buildSameFixture(pool *[]prediction.MarketPrediction) []combo.ComboBet {
	byFixture := make(map[int64]int)
	for _, pred := range *pool {
		byFixture[pred.FixtureID]++
	}

	fixtureIDs := make([]int64, 0, len(byFixture))
	for fixtureID, count := range byFixture {
		if count >= combo.MinLegs {
			fixtureIDs = append(fixtureIDs, fixtureID)
		}
	}
	sort.Slice(fixtureIDs, func(i, j int) bool { return fixtureIDs[i] < fixtureIDs[j] })

	out := make([]combo.ComboBet, 0, len(fixtureIDs))
	for _, fixtureID := range fixtureIDs {
		legs := make([]combo.Leg, 0, combo.MaxLegs)
		taken := make([]prediction.MarketPrediction, 0, combo.MaxLegs)
		for len(legs) < combo.MaxLegs {
			pred, ok := consumeFirst(pool, func(p prediction.MarketPrediction) bool {
				return p.FixtureID == fixtureID
			})
			if !ok {
				break
			}
			taken = append(taken, pred)
			legs = append(legs, toLeg(pred))
		}
		if c, ok := s.assemble(legs); ok {
			out = append(out, c)
		} else {
			restore(pool, taken)
		}
	}
	return out
}

func (s *ComboService) buildCrossFixture(pool *[]prediction.MarketPrediction) []combo.ComboBet {
	out := make([]combo.ComboBet, 0, 2)
	unpaired := make([]prediction.MarketPrediction, 0, len(*pool))
	for {
		anchor, ok := consumeFirst(pool, func(prediction.MarketPrediction) bool { return true })
		if !ok {
			break
		}

		legs := []combo.Leg{toLeg(anchor)}
		taken := []prediction.MarketPrediction{anchor}
		usedFixtures := map[int64]struct{}{anchor.FixtureID: {}}
		for len(legs) < combo.MaxLegs {
			pred, ok := consumeFirst(pool, func(p prediction.MarketPrediction) bool {
				if _, used := usedFixtures[p.FixtureID]; used {
					return false
				}
				return withinWindow(anchor.KickoffAt, p.KickoffAt)
			})
			if !ok {
				break
			}
			usedFixtures[pred.FixtureID] = struct{}{}
			taken = append(taken, pred)
			legs = append(legs, toLeg(pred))
		}

		c, ok := s.assemble(legs)
		if !ok {
			// An anchor without partners is set aside instead of
			// returned to the pool, so the pass keeps going and later
			// picks can still pair with each other.
			unpaired = append(unpaired, taken...)
			continue
		}
		out = append(out, c)
	}
	restore(pool, unpaired)
	return out
}

func (s *ComboService) assemble(legs []combo.Leg) (combo.ComboBet, bool) {
	if len(legs) < combo.MinLegs {
		return combo.ComboBet{}, false
	}

	comboID, err := s.idGen.NewID()
	if err != nil {
		s.logger.Warn("generate combo id", "error", err)
		return combo.ComboBet{}, false
	}

	c := combo.ComboBet{
		ID:        comboID,
		Legs:      legs,
		CreatedAt: s.now().UTC(),
	}
	c.Recompute()
	if !c.Valid() {
		return combo.ComboBet{}, false
	}
	return c, true
}

// Save persists a built combo.
func (s *ComboService) Save(ctx context.Context, c combo.ComboBet) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComboService.Save")
	defer span.End()

	if err := s.comboRepo.Upsert(ctx, c); err != nil {
		return fmt.Errorf("upsert combo %s: %w", c.ID, err)
	}
	return nil
}

// RemoveLeg removes one leg from a published combo and re-derives the
// totals. Removal is refused when only one leg would remain or when
// the remaining legs no longer clear the total-odd floor.
func (s *ComboService) RemoveLeg(ctx context.Context, comboID, predictionID string) (combo.ComboBet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComboService.RemoveLeg")
	defer span.End()

	c, exists, err := s.comboRepo.Get(ctx, comboID)
	if err != nil {
		return combo.ComboBet{}, fmt.Errorf("get combo %s: %w", comboID, err)
	}
	if !exists {
		return combo.ComboBet{}, fmt.Errorf("%w: combo %s", ErrNotFound, comboID)
	}

	if len(c.Legs) <= combo.MinLegs {
		return combo.ComboBet{}, fmt.Errorf("%w: removing a leg would leave fewer than %d legs", ErrInvalidInput, combo.MinLegs)
	}

	kept := make([]combo.Leg, 0, len(c.Legs)-1)
	removed := false
	for _, leg := range c.Legs {
		if !removed && leg.PredictionID == predictionID {
			removed = true
			continue
		}
		kept = append(kept, leg)
	}
	if !removed {
		return combo.ComboBet{}, fmt.Errorf("%w: leg %s not in combo %s", ErrNotFound, predictionID, comboID)
	}

	c.Legs = kept
	c.Recompute()
	if !c.Valid() {
		return combo.ComboBet{}, fmt.Errorf("%w: removal drops total odd to %.2f, below %.2f", ErrInvalidInput, c.TotalOdd, combo.MinTotalOdd)
	}

	if err := s.comboRepo.Upsert(ctx, c); err != nil {
		return combo.ComboBet{}, fmt.Errorf("update combo %s after leg removal: %w", comboID, err)
	}
	return c, nil
}

// consumeFirst drains the first pool entry matching the predicate.
// Draining is the ownership transfer that prevents double-use of a
// prediction across combos and standalone publication.
func consumeFirst(pool *[]prediction.MarketPrediction, match func(prediction.MarketPrediction) bool) (prediction.MarketPrediction, bool) {
	for i, pred := range *pool {
		if !match(pred) {
			continue
		}
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
		return pred, true
	}
	return prediction.MarketPrediction{}, false
}

// restore returns unconsumed predictions to the pool intact, so a
// failed assembly never degrades a pick on its way back to standalone
// publication.
func restore(pool *[]prediction.MarketPrediction, preds []prediction.MarketPrediction) {
	*pool = append(*pool, preds...)
}

func toLeg(pred prediction.MarketPrediction) combo.Leg {
	return combo.Leg{
		PredictionID: pred.ID,
		FixtureID:    pred.FixtureID,
		HomeTeam:     pred.HomeTeam,
		AwayTeam:     pred.AwayTeam,
		KickoffAt:    pred.KickoffAt,
		Market:       pred.Market,
		Outcome:      pred.Outcome,
		Odd:          pred.SuggestedOdd,
		Probability:  pred.Probability,
		Confidence:   pred.Confidence,
	}
}

func withinWindow(a, b time.Time) bool {
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta <= combo.KickoffWindow
}
