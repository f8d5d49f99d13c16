package analysis

import "time"

// Reference lines for the secondary-market over-rates, measured on
// match totals.
const (
	CornersReferenceLine = 5.5
	CardsReferenceLine   = 1.5
	ShotsReferenceLine   = 3.5
)

// TeamProfile is the per-team statistical profile over the last N
// finished matches. It is rebuilt from scratch on every analysis run
// and never mutated afterwards. All *Pct fields are percentages in
// [0,100]; all averages are non-negative.
type TeamProfile struct {
	TeamID   int64
	TeamName string
	LeagueID int64
	Season   int

	MatchesAnalyzed          int
	MatchesWithDetailedStats int

	GoalsScoredAvg       float64
	GoalsConcededAvg     float64
	GoalsScoredHomeAvg   float64
	GoalsConcededHomeAvg float64
	GoalsScoredAwayAvg   float64
	GoalsConcededAwayAvg float64

	Over05Pct float64
	Over15Pct float64
	Over25Pct float64
	Over35Pct float64

	BTTSPct          float64
	CleanSheetPct    float64
	FailedToScorePct float64
	FirstHalfGoalPct float64
	WinPct           float64

	// FormPoints is 3/1/0 over the last five matches, newest first.
	FormPoints int

	CornersAvg       float64
	CardsAvg         float64
	ShotsOnTargetAvg float64
	FoulsAvg         float64

	CornersOverPct float64
	CardsOverPct   float64
	ShotsOverPct   float64

	LeagueRank int
	LeagueSize int

	GeneratedAt time.Time
}

// H2HProfile aggregates the head-to-head meetings between two teams.
// Absent when fewer than three historical meetings exist.
type H2HProfile struct {
	TeamAID int64
	TeamBID int64

	Meetings  int
	TeamAWins int
	Draws     int
	TeamBWins int

	AvgGoals   float64
	AvgCorners float64
	AvgCards   float64

	Over25Pct float64
	BTTSPct   float64
}
