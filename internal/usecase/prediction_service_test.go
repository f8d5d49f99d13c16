package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/market"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
)

// seqIDGen hands out deterministic ids so tests can assert on them.
type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("pred-%03d", g.n), nil
}

func predictionTestFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:         9001,
		LeagueID:   71,
		Season:     2025,
		HomeTeamID: 101,
		AwayTeamID: 102,
		HomeTeam:   "Flamengo",
		AwayTeam:   "Palmeiras",
		KickoffAt:  time.Date(2025, 9, 6, 19, 0, 0, 0, time.UTC),
		Status:     fixture.StatusScheduled,
	}
}

func strongHomeProfile() analysis.TeamProfile {
	return analysis.TeamProfile{
		TeamID:               101,
		MatchesAnalyzed:      10,
		GoalsScoredAvg:       2.1,
		GoalsConcededAvg:     0.9,
		GoalsScoredHomeAvg:   2.2,
		GoalsConcededHomeAvg: 1.0,
		GoalsScoredAwayAvg:   2.0,
		GoalsConcededAwayAvg: 0.8,
		Over05Pct:            100,
		Over15Pct:            90,
		Over25Pct:            70,
		Over35Pct:            40,
		BTTSPct:              60,
		FirstHalfGoalPct:     80,
		WinPct:               70,
	}
}

func strongAwayProfile() analysis.TeamProfile {
	return analysis.TeamProfile{
		TeamID:               102,
		MatchesAnalyzed:      10,
		GoalsScoredAvg:       1.6,
		GoalsConcededAvg:     1.3,
		GoalsScoredHomeAvg:   1.8,
		GoalsConcededHomeAvg: 1.2,
		GoalsScoredAwayAvg:   1.6,
		GoalsConcededAwayAvg: 1.4,
		Over05Pct:            90,
		Over15Pct:            80,
		Over25Pct:            60,
		Over35Pct:            30,
		BTTSPct:              50,
		FirstHalfGoalPct:     70,
		WinPct:               40,
	}
}

func findByMarket(preds []prediction.MarketPrediction, label string) (prediction.MarketPrediction, bool) {
	for _, p := range preds {
		if p.Market == label {
			return p, true
		}
	}
	return prediction.MarketPrediction{}, false
}

func TestGenerate_RequiresProfiles(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	_, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
	})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestGenerate_Invariants(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	preds, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    strongHomeProfile(),
		Away:    strongAwayProfile(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(preds) == 0 {
		t.Fatalf("no predictions from strong profiles")
	}

	for i, p := range preds {
		if p.ID == "" {
			t.Errorf("prediction %d has empty id", i)
		}
		if p.FixtureID != 9001 || p.LeagueID != 71 {
			t.Errorf("prediction %q not bound to fixture: fixture=%d league=%d", p.Market, p.FixtureID, p.LeagueID)
		}
		if p.Confidence < 80 || p.Confidence > 95 {
			t.Errorf("prediction %q confidence %.1f outside [80,95]", p.Market, p.Confidence)
		}
		if p.Probability <= 0 || p.Probability > 100 {
			t.Errorf("prediction %q probability %.1f outside (0,100]", p.Market, p.Probability)
		}
		if p.ExpectedValue < 0 {
			t.Errorf("prediction %q has negative expected value %.2f", p.Market, p.ExpectedValue)
		}
		if _, ok := market.Classify(p.Market); !ok {
			t.Errorf("prediction label %q is not classifiable", p.Market)
		}
		if i > 0 && preds[i-1].Confidence < p.Confidence {
			t.Errorf("predictions not sorted by confidence: %.1f before %.1f", preds[i-1].Confidence, p.Confidence)
		}
	}

	// Without a price surface every pick carries the fair odd, whose
	// expected value is exactly zero.
	for _, p := range preds {
		if p.BookmakerOdd {
			t.Errorf("prediction %q flagged as bookmaker odd without odds input", p.Market)
		}
		if p.ExpectedValue != 0 {
			t.Errorf("prediction %q fair-odd expected value = %.2f, want 0", p.Market, p.ExpectedValue)
		}
		fair := round2(100 / p.Probability)
		if p.SuggestedOdd != fair {
			t.Errorf("prediction %q suggested odd = %.2f, want fair %.2f", p.Market, p.SuggestedOdd, fair)
		}
	}

	over05, ok := findByMarket(preds, "Over 0.5 Gols FT")
	if !ok {
		t.Fatalf("expected Over 0.5 Gols FT from high-scoring profiles")
	}
	if over05.Probability < 90 {
		t.Errorf("Over 0.5 probability = %.1f, want >= 90", over05.Probability)
	}
	if over05.Outcome != "Over 0.5 Gols FT" {
		t.Errorf("line-market outcome = %q, want label", over05.Outcome)
	}
	if len(over05.Rationale) == 0 {
		t.Errorf("prediction published without rationale")
	}
}

func TestGenerate_BookmakerOdds(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	input := GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    strongHomeProfile(),
		Away:    strongAwayProfile(),
	}

	base, err := svc.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	over05, ok := findByMarket(base, "Over 0.5 Gols FT")
	if !ok {
		t.Fatalf("baseline missing Over 0.5 Gols FT")
	}
	over15, over15Present := findByMarket(base, "Over 1.5 Gols FT")
	if !over15Present {
		t.Fatalf("baseline missing Over 1.5 Gols FT")
	}
	// A quoted price between the floor and the fair odd turns the
	// expected value negative, which must drop the pick.
	badOdd := 1.10
	if fair := 100 / over15.Probability; badOdd >= fair {
		t.Fatalf("test setup: bad odd %.2f not below fair %.2f", badOdd, fair)
	}

	input.Odds = market.OddsTable{
		"Goals Over/Under": {
			"Over 0.5": 1.25,
			"Over 1.5": badOdd,
		},
	}
	priced, err := svc.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("Generate with odds: %v", err)
	}

	pricedOver05, ok := findByMarket(priced, "Over 0.5 Gols FT")
	if !ok {
		t.Fatalf("Over 0.5 dropped despite positive-EV price")
	}
	if !pricedOver05.BookmakerOdd {
		t.Errorf("Over 0.5 not flagged as bookmaker priced")
	}
	if pricedOver05.SuggestedOdd != 1.25 {
		t.Errorf("Over 0.5 suggested odd = %.2f, want 1.25", pricedOver05.SuggestedOdd)
	}
	wantEV := round2((pricedOver05.Probability/100*1.25 - 1) * 100)
	if pricedOver05.ExpectedValue != wantEV {
		t.Errorf("Over 0.5 expected value = %.2f, want %.2f", pricedOver05.ExpectedValue, wantEV)
	}
	if pricedOver05.ExpectedValue <= 0 {
		t.Errorf("Over 0.5 expected value = %.2f, want positive at odd 1.25 and probability %.1f", pricedOver05.ExpectedValue, over05.Probability)
	}

	if _, still := findByMarket(priced, "Over 1.5 Gols FT"); still {
		t.Errorf("Over 1.5 kept despite negative expected value at odd %.2f", badOdd)
	}
}

func TestGenerate_H2HGoalBonus(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	input := GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    strongHomeProfile(),
		Away:    strongAwayProfile(),
	}

	base, err := svc.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	input.H2H = &analysis.H2HProfile{TeamAID: 101, TeamBID: 102, Meetings: 4, AvgGoals: 3.2}
	boosted, err := svc.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("Generate with h2h: %v", err)
	}

	baseOver, _ := findByMarket(base, "Over 1.5 Gols FT")
	boostedOver, ok := findByMarket(boosted, "Over 1.5 Gols FT")
	if !ok {
		t.Fatalf("Over 1.5 missing from boosted run")
	}
	want := math.Min(baseOver.Confidence+5, 95)
	if boostedOver.Confidence != want {
		t.Errorf("boosted Over 1.5 confidence = %.1f, want %.1f", boostedOver.Confidence, want)
	}

	// The bonus applies to goal lines only.
	baseBTTS, bttsInBase := findByMarket(base, "Ambas Marcam")
	boostedBTTS, bttsInBoosted := findByMarket(boosted, "Ambas Marcam")
	if bttsInBase != bttsInBoosted {
		t.Fatalf("h2h changed BTTS presence: base=%v boosted=%v", bttsInBase, bttsInBoosted)
	}
	if bttsInBase && baseBTTS.Confidence != boostedBTTS.Confidence {
		t.Errorf("BTTS confidence moved with h2h: %.1f -> %.1f", baseBTTS.Confidence, boostedBTTS.Confidence)
	}
}

func TestGenerate_SecondaryMarkets(t *testing.T) {
	t.Parallel()

	home := strongHomeProfile()
	away := strongAwayProfile()
	home.MatchesWithDetailedStats = 8
	away.MatchesWithDetailedStats = 7
	home.CornersAvg, away.CornersAvg = 6.0, 5.0
	home.CornersOverPct, away.CornersOverPct = 90, 80
	home.CardsAvg, away.CardsAvg = 2.0, 2.0
	home.CardsOverPct, away.CardsOverPct = 70, 80
	home.ShotsOnTargetAvg, away.ShotsOnTargetAvg = 5.0, 4.0
	home.ShotsOverPct, away.ShotsOverPct = 100, 90

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	preds, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    home,
		Away:    away,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 11.0 corners scaled by 0.55 floors to 6, published as 6.5.
	corners, ok := findByMarket(preds, "Over 6.5 Escanteios")
	if !ok {
		t.Fatalf("corners market missing; got %v", marketLabels(preds))
	}
	if corners.Probability != 85 {
		t.Errorf("corners probability = %.1f, want 85 (mean of the over rates)", corners.Probability)
	}

	// 9.0 shots scaled by 0.60 floors to 5, published as 5.5.
	shots, ok := findByMarket(preds, "Over 5.5 Chutes ao Gol")
	if !ok {
		t.Fatalf("shots market missing; got %v", marketLabels(preds))
	}
	if shots.Probability != 95 {
		t.Errorf("shots probability = %.1f, want 95", shots.Probability)
	}

	// The cards over rate averages 75, under the publication gate.
	for _, p := range preds {
		if spec, ok := market.Classify(p.Market); ok && spec.Category == market.CategoryCards {
			t.Errorf("cards market %q published below the over-rate gate", p.Market)
		}
	}
}

func TestGenerate_NoSecondaryWithoutDetailedStats(t *testing.T) {
	t.Parallel()

	home := strongHomeProfile()
	home.CornersAvg, home.CornersOverPct = 7.0, 100
	away := strongAwayProfile()
	away.CornersAvg, away.CornersOverPct = 6.0, 100

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})
	preds, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    home,
		Away:    away,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range preds {
		if spec, ok := market.Classify(p.Market); ok && spec.IsLineMarket() && spec.Category != market.CategoryGoals {
			t.Errorf("secondary market %q published without detailed stats coverage", p.Market)
		}
	}
}

func TestGenerate_HomeAdvantage(t *testing.T) {
	t.Parallel()

	home := strongHomeProfile()
	home.WinPct = 90
	home.GoalsScoredHomeAvg = 3.2
	home.GoalsConcededHomeAvg = 0.2
	away := strongAwayProfile()
	away.WinPct = 10
	away.GoalsScoredAwayAvg = 0.4
	away.GoalsConcededAwayAvg = 2.8

	input := GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    home,
		Away:    away,
	}

	standard := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{HomeAdvantage: 1.0})
	elite := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{HomeAdvantage: 1.15})

	standardPreds, err := standard.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("standard Generate: %v", err)
	}
	elitePreds, err := elite.Generate(context.Background(), input)
	if err != nil {
		t.Fatalf("elite Generate: %v", err)
	}

	standardWin, ok := findByMarket(standardPreds, "Vitória Casa")
	if !ok {
		t.Fatalf("standard run missing home-win market; got %v", marketLabels(standardPreds))
	}
	eliteWin, ok := findByMarket(elitePreds, "Vitória Casa")
	if !ok {
		t.Fatalf("elite run missing home-win market")
	}
	if eliteWin.Probability <= standardWin.Probability {
		t.Errorf("elite home-win probability %.1f not above standard %.1f", eliteWin.Probability, standardWin.Probability)
	}
	if standardWin.Outcome != "Vitória Flamengo" {
		t.Errorf("home-win outcome = %q, want team name", standardWin.Outcome)
	}
}

func marketLabels(preds []prediction.MarketPrediction) []string {
	labels := make([]string, 0, len(preds))
	for _, p := range preds {
		labels = append(labels, p.Market)
	}
	return labels
}

func TestGenerate_ZeroHistoryRateBlendsDown(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(&seqIDGen{}, nil, PredictionOptions{})

	home := strongHomeProfile()
	away := strongAwayProfile()
	home.GoalsScoredHomeAvg = 2.4
	home.GoalsConcededHomeAvg = 1.8
	away.GoalsScoredAwayAvg = 2.2
	away.GoalsConcededAwayAvg = 1.6
	home.FirstHalfGoalPct = 100
	away.FirstHalfGoalPct = 100

	withHistory, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    home,
		Away:    away,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := findByMarket(withHistory, "Over 0.5 Gols 1T"); !ok {
		t.Fatalf("first-half pick missing despite a 100%% historical rate; markets: %v", marketLabels(withHistory))
	}

	// A 0% historical rate is evidence, not absence. It must be
	// weighed like any other value, which drags the blend of an
	// otherwise strong Poisson probability under the gate.
	home.FirstHalfGoalPct = 0
	away.FirstHalfGoalPct = 0
	withoutHistory, err := svc.Generate(context.Background(), GeneratePredictionsInput{
		Fixture: predictionTestFixture(),
		Home:    home,
		Away:    away,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p, ok := findByMarket(withoutHistory, "Over 0.5 Gols 1T"); ok {
		t.Fatalf("first-half pick published at %.1f although both teams never scored before the interval", p.Probability)
	}
}
