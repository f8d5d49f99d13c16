package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/infrastructure/repository/memory"
)

var comboTestKickoff = time.Date(2025, 9, 6, 19, 0, 0, 0, time.UTC)

func comboPred(id string, fixtureID int64, confidence, odd float64, kickoff time.Time) prediction.MarketPrediction {
	return prediction.MarketPrediction{
		ID:           id,
		FixtureID:    fixtureID,
		HomeTeam:     "Casa",
		AwayTeam:     "Fora",
		KickoffAt:    kickoff,
		Market:       "Over 1.5 Gols FT",
		Outcome:      "Over 1.5 Gols FT",
		Probability:  confidence,
		Confidence:   confidence,
		SuggestedOdd: odd,
	}
}

func TestBuild_SameFixturePair(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{
		comboPred("p1", 1, 90, 1.50, comboTestKickoff),
		comboPred("p2", 1, 88, 1.50, comboTestKickoff),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Combos) != 1 {
		t.Fatalf("combos = %d, want 1", len(result.Combos))
	}
	if len(result.Standalone) != 0 {
		t.Fatalf("standalone = %d, want 0 after both picks were consumed", len(result.Standalone))
	}

	c := result.Combos[0]
	if len(c.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(c.Legs))
	}
	if c.ID == "" {
		t.Errorf("combo has empty id")
	}
	if c.TotalOdd != 2.25 {
		t.Errorf("TotalOdd = %v, want 2.25", c.TotalOdd)
	}
	wantCombined := 0.90 * 0.88 * 100
	if diff := c.CombinedProbability - wantCombined; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("CombinedProbability = %v, want %v", c.CombinedProbability, wantCombined)
	}
	if c.AvgConfidence != 89 {
		t.Errorf("AvgConfidence = %v, want 89", c.AvgConfidence)
	}
	// Legs consume in confidence order.
	if c.Legs[0].PredictionID != "p1" || c.Legs[1].PredictionID != "p2" {
		t.Errorf("leg order = %s,%s, want p1,p2", c.Legs[0].PredictionID, c.Legs[1].PredictionID)
	}
}

func TestBuild_PoolGates(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{
		comboPred("lowconf", 1, 84, 2.00, comboTestKickoff),
		comboPred("lowodd", 1, 92, 1.39, comboTestKickoff),
		comboPred("nofixture", 0, 92, 1.50, comboTestKickoff),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Combos) != 0 {
		t.Fatalf("combos = %d, want 0 with every pick gated out", len(result.Combos))
	}
	if len(result.Standalone) != 3 {
		t.Fatalf("standalone = %d, want all 3 picks back", len(result.Standalone))
	}
	if result.Standalone[0].ID != "lowodd" {
		t.Errorf("standalone not sorted by confidence, first = %s", result.Standalone[0].ID)
	}
}

func TestBuild_CrossFixtureWindow(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{
		comboPred("p1", 1, 92, 1.60, comboTestKickoff),
		comboPred("p2", 2, 90, 1.55, comboTestKickoff.Add(2*time.Hour)),
		comboPred("p3", 3, 88, 1.50, comboTestKickoff.Add(-1*time.Hour)),
		comboPred("far", 4, 86, 1.70, comboTestKickoff.Add(5*time.Hour)),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Combos) != 1 {
		t.Fatalf("combos = %d, want 1", len(result.Combos))
	}
	c := result.Combos[0]
	if len(c.Legs) != 3 {
		t.Fatalf("legs = %d, want the three fixtures inside the window", len(c.Legs))
	}
	for _, leg := range c.Legs {
		if leg.PredictionID == "far" {
			t.Fatalf("pick outside the kickoff window joined the combo")
		}
	}

	// The leftover anchor cannot form a combo alone and returns to the
	// standalone pool.
	if len(result.Standalone) != 1 || result.Standalone[0].ID != "far" {
		t.Fatalf("standalone = %v, want only the out-of-window pick", marketIDs(result.Standalone))
	}
}

func TestBuild_NoDoubleUse(t *testing.T) {
	t.Parallel()

	input := []prediction.MarketPrediction{
		comboPred("a1", 1, 95, 1.60, comboTestKickoff),
		comboPred("a2", 1, 90, 1.50, comboTestKickoff),
		comboPred("b1", 2, 89, 1.45, comboTestKickoff.Add(time.Hour)),
		comboPred("b2", 3, 87, 1.42, comboTestKickoff.Add(2*time.Hour)),
		comboPred("single", 5, 81, 1.80, comboTestKickoff),
	}

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[string]int)
	for _, c := range result.Combos {
		for _, leg := range c.Legs {
			seen[leg.PredictionID]++
		}
	}
	for _, p := range result.Standalone {
		seen[p.ID]++
	}
	for _, p := range input {
		if seen[p.ID] != 1 {
			t.Errorf("prediction %s placed %d times, want exactly once", p.ID, seen[p.ID])
		}
	}
}

func TestBuild_LoneEligiblePickStaysStandalone(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{
		comboPred("solo", 1, 90, 1.50, comboTestKickoff),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Combos) != 0 {
		t.Fatalf("combos = %d, want 0", len(result.Combos))
	}
	if len(result.Standalone) != 1 || result.Standalone[0].ID != "solo" {
		t.Fatalf("lone pick lost: standalone = %v", marketIDs(result.Standalone))
	}
}

func TestRemoveLeg(t *testing.T) {
	t.Parallel()

	repo := memory.NewComboRepository()
	svc := NewComboService(repo, &seqIDGen{}, nil)

	c := combo.ComboBet{
		ID: "combo-1",
		Legs: []combo.Leg{
			{PredictionID: "p1", FixtureID: 1, Odd: 1.60, Probability: 90, Confidence: 92},
			{PredictionID: "p2", FixtureID: 2, Odd: 1.50, Probability: 88, Confidence: 90},
			{PredictionID: "p3", FixtureID: 3, Odd: 1.45, Probability: 86, Confidence: 88},
		},
		CreatedAt: comboTestKickoff,
	}
	c.Recompute()
	if err := svc.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated, err := svc.RemoveLeg(context.Background(), "combo-1", "p2")
	if err != nil {
		t.Fatalf("RemoveLeg: %v", err)
	}
	if len(updated.Legs) != 2 {
		t.Fatalf("legs after removal = %d, want 2", len(updated.Legs))
	}
	wantOdd := 1.60 * 1.45
	if diff := updated.TotalOdd - wantOdd; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TotalOdd = %v, want %v after recompute", updated.TotalOdd, wantOdd)
	}

	stored, ok, err := repo.Get(context.Background(), "combo-1")
	if err != nil || !ok {
		t.Fatalf("Get after removal: ok=%v err=%v", ok, err)
	}
	if len(stored.Legs) != 2 {
		t.Fatalf("persisted legs = %d, want 2", len(stored.Legs))
	}

	// Two legs is the floor; degrading further is refused.
	if _, err := svc.RemoveLeg(context.Background(), "combo-1", "p1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput at the leg floor", err)
	}

	if _, err := svc.RemoveLeg(context.Background(), "missing", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown combo", err)
	}
}

func marketIDs(preds []prediction.MarketPrediction) []string {
	ids := make([]string, 0, len(preds))
	for _, p := range preds {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestBuild_CrossFixtureSkipsUnpairedAnchor(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{
		comboPred("a", 1, 95, 1.60, comboTestKickoff.Add(-10*time.Hour)),
		comboPred("b", 2, 90, 1.55, comboTestKickoff),
		comboPred("c", 3, 88, 1.50, comboTestKickoff.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The top-confidence pick kicks off far from everything else. It
	// must not stall the pass; the two later picks still pair up.
	if len(result.Combos) != 1 {
		t.Fatalf("combos = %d, want 1 from the picks after the unpaired anchor", len(result.Combos))
	}
	legs := result.Combos[0].Legs
	if len(legs) != 2 || legs[0].PredictionID != "b" || legs[1].PredictionID != "c" {
		t.Fatalf("combo legs = %v, want b and c", legs)
	}
	if len(result.Standalone) != 1 || result.Standalone[0].ID != "a" {
		t.Fatalf("standalone = %v, want only the unpaired anchor", marketIDs(result.Standalone))
	}
}

func TestBuild_RestoredPickKeepsAllFields(t *testing.T) {
	t.Parallel()

	svc := NewComboService(memory.NewComboRepository(), &seqIDGen{}, nil)
	lone := comboPred("solo", 7, 92, 1.80, comboTestKickoff)
	lone.LeagueID = 71
	lone.ExpectedValue = 12.5
	lone.BookmakerOdd = true
	lone.Rationale = []string{"Poisson Over 1.5: 88.0%"}
	lone.CreatedAt = comboTestKickoff.Add(-time.Minute)

	result, err := svc.Build(context.Background(), []prediction.MarketPrediction{lone})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Combos) != 0 {
		t.Fatalf("combos = %d, want 0 for a single pick", len(result.Combos))
	}
	if len(result.Standalone) != 1 {
		t.Fatalf("standalone = %d, want 1", len(result.Standalone))
	}
	if got := result.Standalone[0]; !reflect.DeepEqual(got, lone) {
		t.Fatalf("restored pick lost fields:\n got %+v\nwant %+v", got, lone)
	}
}

func TestRemoveLeg_RefusesDroppingBelowMinTotalOdd(t *testing.T) {
	t.Parallel()

	repo := memory.NewComboRepository()
	svc := NewComboService(repo, &seqIDGen{}, nil)

	c := combo.ComboBet{
		ID: "combo-low",
		Legs: []combo.Leg{
			{PredictionID: "p1", FixtureID: 1, Odd: 1.20, Probability: 95, Confidence: 95},
			{PredictionID: "p2", FixtureID: 2, Odd: 1.22, Probability: 94, Confidence: 94},
			{PredictionID: "p3", FixtureID: 3, Odd: 1.30, Probability: 92, Confidence: 92},
		},
		CreatedAt: comboTestKickoff,
	}
	c.Recompute()
	if err := svc.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Dropping the 1.30 leg would leave 1.20 x 1.22 = 1.464.
	if _, err := svc.RemoveLeg(context.Background(), "combo-low", "p3"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput when the total odd falls under the floor", err)
	}

	stored, ok, err := repo.Get(context.Background(), "combo-low")
	if err != nil || !ok {
		t.Fatalf("Get after refused removal: ok=%v err=%v", ok, err)
	}
	if len(stored.Legs) != 3 {
		t.Fatalf("persisted legs = %d, want the combo untouched", len(stored.Legs))
	}
}
