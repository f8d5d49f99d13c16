package apifootball

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/market"
)

const finishedStatuses = "FT-AET-PEN"

// FetchUpcomingFixtures lists the league's next scheduled fixtures
// with kickoff inside the horizon.
func (c *Client) FetchUpcomingFixtures(ctx context.Context, leagueID int64, horizon time.Duration) ([]fixture.Fixture, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{
		"league":   strconv.FormatInt(leagueID, 10),
		"next":     strconv.Itoa(defaultUpcomingCount),
		"timezone": "UTC",
	}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch upcoming fixtures league=%d: %w", leagueID, err)
	}

	cutoff := time.Now().UTC().Add(horizon)
	out := make([]fixture.Fixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		mapped, ok := mapFixture(item)
		if !ok {
			continue
		}
		if horizon > 0 && mapped.KickoffAt.After(cutoff) {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

// FetchTeamRecentMatches lists the team's last finished matches,
// newest first.
func (c *Client) FetchTeamRecentMatches(ctx context.Context, teamID int64, count int) ([]fixture.MatchSummary, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}
	if count <= 0 {
		count = 10
	}

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{
		"team":     strconv.FormatInt(teamID, 10),
		"last":     strconv.Itoa(count),
		"status":   finishedStatuses,
		"timezone": "UTC",
	}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch recent matches team=%d: %w", teamID, err)
	}
	return mapSummaries(envelope.Response), nil
}

func (c *Client) FetchHeadToHead(ctx context.Context, teamAID, teamBID int64, count int) ([]fixture.MatchSummary, error) {
	if teamAID <= 0 || teamBID <= 0 {
		return nil, fmt.Errorf("both team ids must be greater than zero")
	}
	if count <= 0 {
		count = 10
	}

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/fixtures/headtohead", map[string]string{
		"h2h":      fmt.Sprintf("%d-%d", teamAID, teamBID),
		"last":     strconv.Itoa(count),
		"status":   finishedStatuses,
		"timezone": "UTC",
	}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch head to head %d-%d: %w", teamAID, teamBID, err)
	}
	return mapSummaries(envelope.Response), nil
}

// FetchFixtureStatistics fetches the detailed per-side counters of one
// fixture. The endpoint is heavily rate limited, so requests wait on
// the client's limiter.
func (c *Client) FetchFixtureStatistics(ctx context.Context, fixtureID int64) (fixture.DetailedStats, bool, error) {
	if fixtureID <= 0 {
		return fixture.DetailedStats{}, false, fmt.Errorf("fixture id must be greater than zero")
	}
	if err := c.statsLimiter.Wait(ctx); err != nil {
		return fixture.DetailedStats{}, false, err
	}

	var envelope statisticsEnvelope
	if err := c.doJSON(ctx, "/fixtures/statistics", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	}, &envelope); err != nil {
		return fixture.DetailedStats{}, false, fmt.Errorf("fetch statistics fixture=%d: %w", fixtureID, err)
	}

	// The provider returns the sides in fixture order: home first.
	if len(envelope.Response) < 2 {
		return fixture.DetailedStats{}, false, nil
	}
	return fixture.DetailedStats{
		FixtureID: fixtureID,
		Home:      mapSideStats(envelope.Response[0].Statistics),
		Away:      mapSideStats(envelope.Response[1].Statistics),
	}, true, nil
}

func (c *Client) FetchBookmakerOdds(ctx context.Context, fixtureID int64) (market.OddsTable, bool, error) {
	if fixtureID <= 0 {
		return nil, false, fmt.Errorf("fixture id must be greater than zero")
	}

	var envelope oddsEnvelope
	if err := c.doJSON(ctx, "/odds", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	}, &envelope); err != nil {
		return nil, false, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}

	if len(envelope.Response) == 0 || len(envelope.Response[0].Bookmakers) == 0 {
		return nil, false, nil
	}

	table := make(market.OddsTable)
	for _, bet := range envelope.Response[0].Bookmakers[0].Bets {
		if bet.Name == "" || len(bet.Values) == 0 {
			continue
		}
		outcomes := make(map[string]float64, len(bet.Values))
		for _, value := range bet.Values {
			odd := float64(value.Odd)
			if value.Value == "" || odd <= 1.0 {
				continue
			}
			outcomes[value.Value] = odd
		}
		if len(outcomes) > 0 {
			table[bet.Name] = outcomes
		}
	}
	if len(table) == 0 {
		return nil, false, nil
	}
	return table, true, nil
}

// FetchFinalResult returns the final snapshot of a fixture, absent
// until the fixture reaches a finished status. The detailed counters
// are best effort; a fixture without statistics settles its goal
// markets and leaves the secondary counters at zero.
func (c *Client) FetchFinalResult(ctx context.Context, fixtureID int64) (fixture.MatchResult, bool, error) {
	if fixtureID <= 0 {
		return fixture.MatchResult{}, false, fmt.Errorf("fixture id must be greater than zero")
	}

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{
		"id":       strconv.FormatInt(fixtureID, 10),
		"timezone": "UTC",
	}, &envelope); err != nil {
		return fixture.MatchResult{}, false, fmt.Errorf("fetch fixture %d: %w", fixtureID, err)
	}
	if len(envelope.Response) == 0 {
		return fixture.MatchResult{}, false, nil
	}

	item := envelope.Response[0]
	if !fixture.IsFinishedStatus(mapStatus(item.Fixture.Status.Short)) {
		return fixture.MatchResult{}, false, nil
	}

	result := fixture.MatchResult{
		FixtureID:   int64(item.Fixture.ID),
		HomeGoals:   int(item.Goals.Home),
		AwayGoals:   int(item.Goals.Away),
		HTHomeGoals: int(item.Score.Halftime.Home),
		HTAwayGoals: int(item.Score.Halftime.Away),
		FinishedAt:  parseProviderTime(item.Fixture.Date),
	}

	stats, ok, err := c.FetchFixtureStatistics(ctx, fixtureID)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch final statistics", "fixture_id", fixtureID, "error", err)
	} else if ok {
		result.Home = stats.Home
		result.Away = stats.Away
	}
	return result, true, nil
}

func mapSummaries(items []fixtureItem) []fixture.MatchSummary {
	out := make([]fixture.MatchSummary, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 || item.Teams.Home.ID <= 0 || item.Teams.Away.ID <= 0 {
			continue
		}
		out = append(out, fixture.MatchSummary{
			FixtureID:   int64(item.Fixture.ID),
			LeagueID:    int64(item.League.ID),
			Season:      int(item.League.Season),
			KickoffAt:   parseProviderTime(item.Fixture.Date),
			HomeTeamID:  int64(item.Teams.Home.ID),
			AwayTeamID:  int64(item.Teams.Away.ID),
			HomeTeam:    item.Teams.Home.Name,
			AwayTeam:    item.Teams.Away.Name,
			HomeGoals:   int(item.Goals.Home),
			AwayGoals:   int(item.Goals.Away),
			HTHomeGoals: int(item.Score.Halftime.Home),
			HTAwayGoals: int(item.Score.Halftime.Away),
			Status:      mapStatus(item.Fixture.Status.Short),
		})
	}
	return out
}

func mapFixture(item fixtureItem) (fixture.Fixture, bool) {
	if item.Fixture.ID <= 0 || item.Teams.Home.ID <= 0 || item.Teams.Away.ID <= 0 {
		return fixture.Fixture{}, false
	}
	kickoff := parseProviderTime(item.Fixture.Date)
	if kickoff.IsZero() {
		return fixture.Fixture{}, false
	}
	return fixture.Fixture{
		ID:         int64(item.Fixture.ID),
		LeagueID:   int64(item.League.ID),
		Season:     int(item.League.Season),
		HomeTeamID: int64(item.Teams.Home.ID),
		AwayTeamID: int64(item.Teams.Away.ID),
		HomeTeam:   item.Teams.Home.Name,
		AwayTeam:   item.Teams.Away.Name,
		KickoffAt:  kickoff,
		Venue:      item.Fixture.Venue.Name,
		Status:     mapStatus(item.Fixture.Status.Short),
	}, true
}

func mapSideStats(entries []statEntry) fixture.SideStats {
	var out fixture.SideStats
	for _, entry := range entries {
		value := int(entry.Value)
		switch entry.Type {
		case "Corner Kicks":
			out.Corners = value
		case "Yellow Cards":
			out.YellowCards = value
		case "Red Cards":
			out.RedCards = value
		case "Shots on Goal":
			out.ShotsOnTarget = value
		case "Total Shots":
			out.ShotsTotal = value
		case "Fouls":
			out.Fouls = value
		}
	}
	return out
}

func mapStatus(short string) string {
	switch short {
	case "FT", "AET", "PEN":
		return fixture.StatusFinished
	case "NS", "TBD":
		return fixture.StatusScheduled
	case "PST":
		return fixture.StatusPostponed
	case "CANC", "ABD", "AWD", "WO":
		return fixture.StatusCancelled
	default:
		return fixture.StatusLive
	}
}

func parseProviderTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
