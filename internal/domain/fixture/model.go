package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Fixture is one scheduled match selected for analysis.
type Fixture struct {
	ID         int64
	LeagueID   int64
	Season     int
	HomeTeamID int64
	AwayTeamID int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Venue      string
	Status     string
}

// MatchSummary is one finished historical match as ingested from the
// data provider. Fields are validated once at the provider boundary;
// everything downstream can trust them.
type MatchSummary struct {
	FixtureID   int64
	LeagueID    int64
	Season      int
	KickoffAt   time.Time
	HomeTeamID  int64
	AwayTeamID  int64
	HomeTeam    string
	AwayTeam    string
	HomeGoals   int
	AwayGoals   int
	HTHomeGoals int
	HTAwayGoals int
	Status      string
}

func (m MatchSummary) TotalGoals() int {
	return m.HomeGoals + m.AwayGoals
}

func (m MatchSummary) FirstHalfGoals() int {
	return m.HTHomeGoals + m.HTAwayGoals
}

func (m MatchSummary) BothScored() bool {
	return m.HomeGoals > 0 && m.AwayGoals > 0
}

// SideStats holds the detailed per-side counters of one match.
type SideStats struct {
	Corners       int
	YellowCards   int
	RedCards      int
	ShotsOnTarget int
	ShotsTotal    int
	Fouls         int
}

func (s SideStats) Cards() int {
	return s.YellowCards + s.RedCards
}

// DetailedStats holds the optional per-match statistics used for the
// secondary markets. Absent for matches the provider has no data for.
type DetailedStats struct {
	FixtureID int64
	Home      SideStats
	Away      SideStats
}

func (d DetailedStats) TotalCorners() int {
	return d.Home.Corners + d.Away.Corners
}

func (d DetailedStats) TotalCards() int {
	return d.Home.Cards() + d.Away.Cards()
}

func (d DetailedStats) TotalShotsOnTarget() int {
	return d.Home.ShotsOnTarget + d.Away.ShotsOnTarget
}

// MatchResult is the final, immutable snapshot of a finished fixture
// used by settlement.
type MatchResult struct {
	FixtureID   int64
	HomeGoals   int
	AwayGoals   int
	HTHomeGoals int
	HTAwayGoals int
	Home        SideStats
	Away        SideStats
	FinishedAt  time.Time
}

func (r MatchResult) TotalGoals() int {
	return r.HomeGoals + r.AwayGoals
}

func (r MatchResult) FirstHalfGoals() int {
	return r.HTHomeGoals + r.HTAwayGoals
}

func (r MatchResult) SecondHalfGoals() int {
	return r.TotalGoals() - r.FirstHalfGoals()
}

func (r MatchResult) TotalCorners() int {
	return r.Home.Corners + r.Away.Corners
}

func (r MatchResult) TotalCards() int {
	return r.Home.Cards() + r.Away.Cards()
}

func (r MatchResult) TotalShotsOnTarget() int {
	return r.Home.ShotsOnTarget + r.Away.ShotsOnTarget
}

func (r MatchResult) BothScored() bool {
	return r.HomeGoals > 0 && r.AwayGoals > 0
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED", "WO":
		return true
	default:
		return false
	}
}
