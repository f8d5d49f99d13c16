package poisson

import "math"

// maxGoals bounds the double summation; the Poisson tail above ten
// goals per side is negligible for football lambdas.
const maxGoals = 10

// firstHalfShare is the empirical fraction of match goals scored
// before the interval.
const firstHalfShare = 0.44

// Distribution holds the match outcome probabilities derived from a
// pair of expected-goal rates. All values are percentages in [0,100].
type Distribution struct {
	HomeWin float64
	Draw    float64
	AwayWin float64

	Over05 float64
	Over15 float64
	Over25 float64
	Over35 float64

	BTTS          float64
	FirstHalfGoal float64
}

// PMF is the Poisson probability mass function P(k; lambda).
func PMF(k int, lambda float64) float64 {
	if k < 0 || lambda <= 0 {
		return 0
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
}

// OverPct returns 100 when the line is invalid for a cumulative read.
func (d Distribution) OverPct(line float64) float64 {
	switch line {
	case 0.5:
		return d.Over05
	case 1.5:
		return d.Over15
	case 2.5:
		return d.Over25
	case 3.5:
		return d.Over35
	default:
		return 0
	}
}

// Outcomes evaluates the full outcome distribution for a fixture given
// the expected goals of each side. Both lambdas must be strictly
// positive; non-positive input yields the zero Distribution.
func Outcomes(lambdaHome, lambdaAway float64) Distribution {
	if lambdaHome <= 0 || lambdaAway <= 0 {
		return Distribution{}
	}

	var d Distribution
	for h := 0; h <= maxGoals; h++ {
		ph := PMF(h, lambdaHome)
		for a := 0; a <= maxGoals; a++ {
			p := ph * PMF(a, lambdaAway)
			total := h + a

			switch {
			case h > a:
				d.HomeWin += p
			case h == a:
				d.Draw += p
			default:
				d.AwayWin += p
			}

			if total > 0 {
				d.Over05 += p
			}
			if total > 1 {
				d.Over15 += p
			}
			if total > 2 {
				d.Over25 += p
			}
			if total > 3 {
				d.Over35 += p
			}
			if h > 0 && a > 0 {
				d.BTTS += p
			}
		}
	}

	firstHalfLambda := (lambdaHome + lambdaAway) * firstHalfShare
	d.FirstHalfGoal = 1 - PMF(0, firstHalfLambda)

	d.HomeWin = toPct(d.HomeWin)
	d.Draw = toPct(d.Draw)
	d.AwayWin = toPct(d.AwayWin)
	d.Over05 = toPct(d.Over05)
	d.Over15 = toPct(d.Over15)
	d.Over25 = toPct(d.Over25)
	d.Over35 = toPct(d.Over35)
	d.BTTS = toPct(d.BTTS)
	d.FirstHalfGoal = toPct(d.FirstHalfGoal)
	return d
}

func toPct(p float64) float64 {
	pct := p * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func factorial(k int) float64 {
	out := 1.0
	for i := 2; i <= k; i++ {
		out *= float64(i)
	}
	return out
}
