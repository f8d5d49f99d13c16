package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/market"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/poisson"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/id"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
)

const (
	// minConfidenceSingle gates standalone publication.
	minConfidenceSingle = 80.0
	maxConfidence       = 95.0

	// poissonWeight blends the model probability with the historical
	// rate of the same market.
	poissonWeight    = 0.6
	historicalWeight = 0.4

	// minBookmakerOdd is the floor under which a provider price is
	// discarded in favor of the fair odd.
	minBookmakerOdd = 1.10

	// h2hGoalBonus is added to goal-market confidence when the
	// head-to-head history averages more than 2.5 goals.
	h2hGoalBonus          = 5.0
	h2hGoalBonusThreshold = 2.5

	minLambda = 0.1
)

// Safety margins for the secondary markets: the published line is the
// sum of both teams' averages scaled down, floored, plus half. The
// deliberate under-promise keeps the published probability
// conservative relative to the raw average.
const (
	cornersSafetyMargin = 0.55
	cardsSafetyMargin   = 0.50
	shotsSafetyMargin   = 0.60
)

var goalLines = []float64{0.5, 1.5, 2.5, 3.5}

type PredictionOptions struct {
	// HomeAdvantage multiplies the home lambda. 1.0 keeps the blend
	// symmetric; the elite tier runs 1.15.
	HomeAdvantage float64
}

type PredictionService struct {
	idGen  id.Generator
	logger *logging.Logger
	opts   PredictionOptions
	now    func() time.Time
}

func NewPredictionService(idGen id.Generator, logger *logging.Logger, opts PredictionOptions) *PredictionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.HomeAdvantage <= 0 {
		opts.HomeAdvantage = 1.0
	}
	return &PredictionService{
		idGen:  idGen,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

type GeneratePredictionsInput struct {
	Fixture fixture.Fixture
	Home    analysis.TeamProfile
	Away    analysis.TeamProfile
	H2H     *analysis.H2HProfile
	Odds    market.OddsTable
}

// candidate is one market under evaluation before the confidence and
// expected-value filters.
type candidate struct {
	spec        market.Spec
	probability float64
	rationale   []string
}

// Generate derives the confidence- and EV-filtered market predictions
// for one fixture from the two team profiles, the optional
// head-to-head aggregate and the optional bookmaker odds.
func (s *PredictionService) Generate(ctx context.Context, input GeneratePredictionsInput) ([]prediction.MarketPrediction, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PredictionService.Generate")
	defer span.End()

	if input.Home.MatchesAnalyzed == 0 || input.Away.MatchesAnalyzed == 0 {
		return nil, fmt.Errorf("%w: fixture=%d", ErrInsufficientData, input.Fixture.ID)
	}

	lambdaHome := (input.Home.GoalsScoredHomeAvg + input.Away.GoalsConcededAwayAvg) / 2 * s.opts.HomeAdvantage
	lambdaAway := (input.Away.GoalsScoredAwayAvg + input.Home.GoalsConcededHomeAvg) / 2
	lambdaHome = math.Max(lambdaHome, minLambda)
	lambdaAway = math.Max(lambdaAway, minLambda)
	dist := poisson.Outcomes(lambdaHome, lambdaAway)

	candidates := make([]candidate, 0, 16)
	candidates = append(candidates, s.goalCandidates(dist, input)...)
	candidates = append(candidates, s.resultCandidates(dist, input)...)
	candidates = append(candidates, s.secondaryCandidates(input)...)

	out := make([]prediction.MarketPrediction, 0, len(candidates))
	for _, cand := range candidates {
		pred, keep := s.score(cand, input)
		if !keep {
			continue
		}
		out = append(out, pred)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}

func (s *PredictionService) goalCandidates(dist poisson.Distribution, input GeneratePredictionsInput) []candidate {
	out := make([]candidate, 0, len(goalLines)+3)

	for _, line := range goalLines {
		poissonPct := dist.OverPct(line)
		histPct := (overPctAt(input.Home, line) + overPctAt(input.Away, line)) / 2
		blended := blend(poissonPct, histPct)
		out = append(out, candidate{
			spec:        market.Spec{Category: market.CategoryGoals, Period: market.PeriodFullTime, Comparator: market.ComparatorOver, Line: line},
			probability: blended,
			rationale: []string{
				fmt.Sprintf("Poisson Over %.1f: %.1f%%", line, poissonPct),
				fmt.Sprintf("Histórico Over %.1f: %.1f%%", line, histPct),
			},
		})
	}

	bttsHist := (input.Home.BTTSPct + input.Away.BTTSPct) / 2
	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryBTTS, Period: market.PeriodFullTime, Side: market.SideYes},
		probability: blend(dist.BTTS, bttsHist),
		rationale: []string{
			fmt.Sprintf("Poisson ambas marcam: %.1f%%", dist.BTTS),
			fmt.Sprintf("Histórico ambas marcam: %.1f%%", bttsHist),
		},
	})

	firstHalfHist := (input.Home.FirstHalfGoalPct + input.Away.FirstHalfGoalPct) / 2
	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryGoals, Period: market.PeriodFirstHalf, Comparator: market.ComparatorOver, Line: 0.5},
		probability: blend(dist.FirstHalfGoal, firstHalfHist),
		rationale: []string{
			fmt.Sprintf("Poisson gol no 1º tempo: %.1f%%", dist.FirstHalfGoal),
			fmt.Sprintf("Histórico gol no 1º tempo: %.1f%%", firstHalfHist),
		},
	})

	return out
}

func (s *PredictionService) resultCandidates(dist poisson.Distribution, input GeneratePredictionsInput) []candidate {
	out := make([]candidate, 0, 4)

	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryMatchResult, Period: market.PeriodFullTime, Side: market.SideHome},
		probability: blend(dist.HomeWin, input.Home.WinPct),
		rationale: []string{
			fmt.Sprintf("Poisson vitória mandante: %.1f%%", dist.HomeWin),
			fmt.Sprintf("Aproveitamento do mandante: %.1f%%", input.Home.WinPct),
		},
	})
	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryMatchResult, Period: market.PeriodFullTime, Side: market.SideAway},
		probability: blend(dist.AwayWin, input.Away.WinPct),
		rationale: []string{
			fmt.Sprintf("Poisson vitória visitante: %.1f%%", dist.AwayWin),
			fmt.Sprintf("Aproveitamento do visitante: %.1f%%", input.Away.WinPct),
		},
	})

	// Double chance: the historical analog of "home or draw" is the
	// away side failing to win.
	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryDoubleChance, Period: market.PeriodFullTime, Side: market.SideHome},
		probability: blend(dist.HomeWin+dist.Draw, 100-input.Away.WinPct),
		rationale: []string{
			fmt.Sprintf("Poisson mandante ou empate: %.1f%%", dist.HomeWin+dist.Draw),
		},
	})
	out = append(out, candidate{
		spec:        market.Spec{Category: market.CategoryDoubleChance, Period: market.PeriodFullTime, Side: market.SideAway},
		probability: blend(dist.AwayWin+dist.Draw, 100-input.Home.WinPct),
		rationale: []string{
			fmt.Sprintf("Poisson visitante ou empate: %.1f%%", dist.AwayWin+dist.Draw),
		},
	})

	return out
}

func (s *PredictionService) secondaryCandidates(input GeneratePredictionsInput) []candidate {
	if input.Home.MatchesWithDetailedStats == 0 || input.Away.MatchesWithDetailedStats == 0 {
		return nil
	}

	type secondary struct {
		category  market.Category
		sumAvg    float64
		margin    float64
		reference float64
		overRate  float64
		unit      string
	}

	markets := []secondary{
		{
			category:  market.CategoryCorners,
			sumAvg:    input.Home.CornersAvg + input.Away.CornersAvg,
			margin:    cornersSafetyMargin,
			reference: analysis.CornersReferenceLine,
			overRate:  (input.Home.CornersOverPct + input.Away.CornersOverPct) / 2,
			unit:      "escanteios",
		},
		{
			category:  market.CategoryCards,
			sumAvg:    input.Home.CardsAvg + input.Away.CardsAvg,
			margin:    cardsSafetyMargin,
			reference: analysis.CardsReferenceLine,
			overRate:  (input.Home.CardsOverPct + input.Away.CardsOverPct) / 2,
			unit:      "cartões",
		},
		{
			category:  market.CategoryShots,
			sumAvg:    input.Home.ShotsOnTargetAvg + input.Away.ShotsOnTargetAvg,
			margin:    shotsSafetyMargin,
			reference: analysis.ShotsReferenceLine,
			overRate:  (input.Home.ShotsOverPct + input.Away.ShotsOverPct) / 2,
			unit:      "chutes ao gol",
		},
	}

	out := make([]candidate, 0, len(markets))
	for _, m := range markets {
		line := math.Floor(m.sumAvg*m.margin) + 0.5
		if line < 0.5 {
			continue
		}
		// The line is under-promised by the margin; publish only when
		// the historical over-rate at the fixed reference line still
		// clears the confidence threshold.
		if m.overRate < minConfidenceSingle {
			continue
		}
		out = append(out, candidate{
			spec:        market.Spec{Category: m.category, Period: market.PeriodFullTime, Comparator: market.ComparatorOver, Line: line},
			probability: m.overRate,
			rationale: []string{
				fmt.Sprintf("Média combinada de %s: %.1f", m.unit, m.sumAvg),
				fmt.Sprintf("Linha com margem de segurança: %.1f", line),
				fmt.Sprintf("Taxa histórica acima de %.1f: %.1f%%", m.reference, m.overRate),
			},
		})
	}
	return out
}

// score applies the confidence bonuses, resolves the odd and filters
// by confidence threshold and non-negative expected value.
func (s *PredictionService) score(cand candidate, input GeneratePredictionsInput) (prediction.MarketPrediction, bool) {
	probability := clampPct(round1(cand.probability))
	if probability <= 0 {
		return prediction.MarketPrediction{}, false
	}

	rationale := append([]string(nil), cand.rationale...)

	confidence := probability
	if input.H2H != nil && cand.spec.Category == market.CategoryGoals && input.H2H.AvgGoals > h2hGoalBonusThreshold {
		confidence += h2hGoalBonus
		rationale = append(rationale, fmt.Sprintf("H2H com média de %.1f gols", input.H2H.AvgGoals))
	}
	confidence = math.Min(confidence, maxConfidence)
	if confidence < minConfidenceSingle {
		return prediction.MarketPrediction{}, false
	}

	// The fair-odd fallback stays unrounded here so its expected
	// value computes to exactly zero instead of a rounding-induced
	// negative that would drop the pick.
	odd, fromBookmaker := s.resolveOdd(cand.spec, probability, input.Odds)
	expectedValue := round2((probability/100*odd - 1) * 100)
	if expectedValue < 0 {
		// Negative edge is silently dropped; the engine never
		// knowingly publishes a losing price.
		return prediction.MarketPrediction{}, false
	}
	if fromBookmaker {
		rationale = append(rationale, fmt.Sprintf("Odd de mercado: %.2f", odd))
	} else {
		rationale = append(rationale, fmt.Sprintf("Odd justa: %.2f", odd))
	}

	predID, err := s.idGen.NewID()
	if err != nil {
		s.logger.Warn("generate prediction id", "error", err)
		return prediction.MarketPrediction{}, false
	}

	return prediction.MarketPrediction{
		ID:            predID,
		FixtureID:     input.Fixture.ID,
		LeagueID:      input.Fixture.LeagueID,
		HomeTeam:      input.Fixture.HomeTeam,
		AwayTeam:      input.Fixture.AwayTeam,
		KickoffAt:     input.Fixture.KickoffAt,
		Market:        cand.spec.Label(),
		Outcome:       cand.spec.LabelFor(input.Fixture.HomeTeam, input.Fixture.AwayTeam),
		Probability:   probability,
		Confidence:    round1(confidence),
		SuggestedOdd:  round2(odd),
		ExpectedValue: expectedValue,
		BookmakerOdd:  fromBookmaker,
		Rationale:     rationale,
		CreatedAt:     s.now().UTC(),
	}, true
}

func (s *PredictionService) resolveOdd(spec market.Spec, probability float64, odds market.OddsTable) (float64, bool) {
	if odd, ok := odds.Lookup(spec); ok && odd >= minBookmakerOdd {
		return odd, true
	}
	return 100 / probability, false
}

// blend weighs the model probability against the historical rate of
// the same market. A 0% historical rate is real evidence, not absence,
// and pulls the blend down like any other value.
func blend(poissonPct, historicalPct float64) float64 {
	return clampPct(poissonWeight*poissonPct + historicalWeight*historicalPct)
}

func overPctAt(profile analysis.TeamProfile, line float64) float64 {
	switch line {
	case 0.5:
		return profile.Over05Pct
	case 1.5:
		return profile.Over15Pct
	case 2.5:
		return profile.Over25Pct
	case 3.5:
		return profile.Over35Pct
	default:
		return 0
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
