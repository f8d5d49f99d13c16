package prediction

import "time"

// MarketPrediction is one candidate bet emitted by the prediction
// generator. Probability is the Poisson-and-history blend, confidence
// is probability plus contextual bonuses capped at 95, and
// ExpectedValue is probability/100 * odd - 1 as a percentage.
type MarketPrediction struct {
	ID        string
	FixtureID int64
	LeagueID  int64
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time

	Market  string
	Outcome string

	Probability   float64
	Confidence    float64
	SuggestedOdd  float64
	ExpectedValue float64

	// BookmakerOdd reports whether SuggestedOdd came from the odds
	// provider rather than the fair-odd fallback.
	BookmakerOdd bool

	Rationale []string

	CreatedAt time.Time
}
