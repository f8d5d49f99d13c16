package combo

import "time"

const (
	MinLegs     = 2
	MaxLegs     = 4
	MinTotalOdd = 1.50

	// KickoffWindow bounds how far apart the kickoffs of a
	// cross-fixture combo may be.
	KickoffWindow = 3 * time.Hour
)

// Leg is a frozen snapshot of the prediction it was built from. A leg
// with FixtureID zero cannot be settled and blocks the whole combo.
type Leg struct {
	PredictionID string
	FixtureID    int64
	HomeTeam     string
	AwayTeam     string
	KickoffAt    time.Time
	Market       string
	Outcome      string
	Odd          float64
	Probability  float64
	Confidence   float64
}

// ComboBet is an ordered multi-leg combination bet.
type ComboBet struct {
	ID   string
	Legs []Leg

	TotalOdd            float64
	CombinedProbability float64
	AvgConfidence       float64

	CreatedAt time.Time
}

// Recompute derives TotalOdd, CombinedProbability and AvgConfidence
// from the current legs.
func (c *ComboBet) Recompute() {
	totalOdd := 1.0
	combined := 1.0
	confidenceSum := 0.0
	for _, leg := range c.Legs {
		totalOdd *= leg.Odd
		combined *= leg.Probability / 100
		confidenceSum += leg.Confidence
	}
	c.TotalOdd = totalOdd
	c.CombinedProbability = combined * 100
	c.AvgConfidence = 0
	if len(c.Legs) > 0 {
		c.AvgConfidence = confidenceSum / float64(len(c.Legs))
	}
}

// Valid reports whether the combo satisfies the publication
// constraints: leg count, minimum total odd and a fixture binding on
// every leg.
func (c ComboBet) Valid() bool {
	if len(c.Legs) < MinLegs || len(c.Legs) > MaxLegs {
		return false
	}
	if c.TotalOdd < MinTotalOdd {
		return false
	}
	for _, leg := range c.Legs {
		if leg.FixtureID <= 0 {
			return false
		}
	}
	return true
}
