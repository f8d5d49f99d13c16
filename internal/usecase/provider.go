package usecase

import (
	"context"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/market"
)

// MatchDataProvider is the engine's view of the external football data
// and odds provider. Implementations own transport, retries and rate
// limiting; the engine only sees validated, well-typed values. The
// boolean returns follow the provider's data availability: false with
// a nil error means "absent", not a failure.
type MatchDataProvider interface {
	FetchUpcomingFixtures(ctx context.Context, leagueID int64, horizon time.Duration) ([]fixture.Fixture, error)
	FetchTeamRecentMatches(ctx context.Context, teamID int64, count int) ([]fixture.MatchSummary, error)
	FetchHeadToHead(ctx context.Context, teamAID, teamBID int64, count int) ([]fixture.MatchSummary, error)
	FetchFixtureStatistics(ctx context.Context, fixtureID int64) (fixture.DetailedStats, bool, error)
	FetchBookmakerOdds(ctx context.Context, fixtureID int64) (market.OddsTable, bool, error)
	FetchFinalResult(ctx context.Context, fixtureID int64) (fixture.MatchResult, bool, error)
}
