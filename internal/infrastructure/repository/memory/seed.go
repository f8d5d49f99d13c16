package memory

import (
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
)

const (
	SeedLeagueID = int64(71)
	SeedSeason   = 2025

	SeedHomeTeamID = int64(101)
	SeedAwayTeamID = int64(102)

	SeedHomeTeam = "Flamengo"
	SeedAwayTeam = "Palmeiras"
)

var SeedKickoff = time.Date(2025, 9, 6, 19, 0, 0, 0, time.UTC)

// SeedUpcomingFixture is the fixture the seeded history leads up to.
func SeedUpcomingFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:         9001,
		LeagueID:   SeedLeagueID,
		Season:     SeedSeason,
		HomeTeamID: SeedHomeTeamID,
		AwayTeamID: SeedAwayTeamID,
		HomeTeam:   SeedHomeTeam,
		AwayTeam:   SeedAwayTeam,
		KickoffAt:  SeedKickoff,
		Venue:      "Maracanã",
		Status:     fixture.StatusScheduled,
	}
}

// SeedHomeTeamMatches is ten finished matches for the seeded home
// team, newest first, alternating venue. The team scores freely at
// home and concedes little.
func SeedHomeTeamMatches() []fixture.MatchSummary {
	scores := []struct {
		home      bool
		scored    int
		conceded  int
		htScored  int
		htAgainst int
	}{
		{true, 3, 1, 2, 0},
		{false, 1, 1, 0, 1},
		{true, 2, 0, 1, 0},
		{false, 2, 2, 1, 1},
		{true, 4, 1, 2, 1},
		{false, 0, 1, 0, 0},
		{true, 2, 1, 1, 0},
		{false, 1, 0, 1, 0},
		{true, 3, 2, 1, 1},
		{false, 2, 1, 0, 0},
	}

	out := make([]fixture.MatchSummary, 0, len(scores))
	for i, s := range scores {
		m := fixture.MatchSummary{
			FixtureID: int64(8000 + i),
			LeagueID:  SeedLeagueID,
			Season:    SeedSeason,
			KickoffAt: SeedKickoff.AddDate(0, 0, -7*(i+1)),
			Status:    fixture.StatusFinished,
		}
		if s.home {
			m.HomeTeamID = SeedHomeTeamID
			m.HomeTeam = SeedHomeTeam
			m.AwayTeamID = int64(200 + i)
			m.AwayTeam = "Opponent"
			m.HomeGoals = s.scored
			m.AwayGoals = s.conceded
			m.HTHomeGoals = s.htScored
			m.HTAwayGoals = s.htAgainst
		} else {
			m.AwayTeamID = SeedHomeTeamID
			m.AwayTeam = SeedHomeTeam
			m.HomeTeamID = int64(200 + i)
			m.HomeTeam = "Opponent"
			m.AwayGoals = s.scored
			m.HomeGoals = s.conceded
			m.HTAwayGoals = s.htScored
			m.HTHomeGoals = s.htAgainst
		}
		out = append(out, m)
	}
	return out
}

// SeedAwayTeamMatches is ten finished matches for the seeded away
// team, newest first. A tighter, lower-scoring side.
func SeedAwayTeamMatches() []fixture.MatchSummary {
	scores := []struct {
		home      bool
		scored    int
		conceded  int
		htScored  int
		htAgainst int
	}{
		{false, 1, 2, 1, 1},
		{true, 2, 0, 1, 0},
		{false, 0, 0, 0, 0},
		{true, 1, 1, 0, 0},
		{false, 2, 1, 1, 0},
		{true, 3, 1, 1, 1},
		{false, 0, 2, 0, 1},
		{true, 1, 0, 0, 0},
		{false, 1, 1, 1, 0},
		{true, 2, 2, 1, 1},
	}

	out := make([]fixture.MatchSummary, 0, len(scores))
	for i, s := range scores {
		m := fixture.MatchSummary{
			FixtureID: int64(8100 + i),
			LeagueID:  SeedLeagueID,
			Season:    SeedSeason,
			KickoffAt: SeedKickoff.AddDate(0, 0, -7*(i+1)),
			Status:    fixture.StatusFinished,
		}
		if s.home {
			m.HomeTeamID = SeedAwayTeamID
			m.HomeTeam = SeedAwayTeam
			m.AwayTeamID = int64(300 + i)
			m.AwayTeam = "Opponent"
			m.HomeGoals = s.scored
			m.AwayGoals = s.conceded
			m.HTHomeGoals = s.htScored
			m.HTAwayGoals = s.htAgainst
		} else {
			m.AwayTeamID = SeedAwayTeamID
			m.AwayTeam = SeedAwayTeam
			m.HomeTeamID = int64(300 + i)
			m.HomeTeam = "Opponent"
			m.AwayGoals = s.scored
			m.HomeGoals = s.conceded
			m.HTAwayGoals = s.htScored
			m.HTHomeGoals = s.htAgainst
		}
		out = append(out, m)
	}
	return out
}

// SeedH2HMatches is four past meetings of the seeded pairing.
func SeedH2HMatches() []fixture.MatchSummary {
	return []fixture.MatchSummary{
		{
			FixtureID: 8200, LeagueID: SeedLeagueID, Season: SeedSeason,
			KickoffAt:  SeedKickoff.AddDate(0, -6, 0),
			HomeTeamID: SeedHomeTeamID, HomeTeam: SeedHomeTeam,
			AwayTeamID: SeedAwayTeamID, AwayTeam: SeedAwayTeam,
			HomeGoals: 2, AwayGoals: 1, HTHomeGoals: 1, HTAwayGoals: 0,
			Status: fixture.StatusFinished,
		},
		{
			FixtureID: 8201, LeagueID: SeedLeagueID, Season: SeedSeason,
			KickoffAt:  SeedKickoff.AddDate(0, -12, 0),
			HomeTeamID: SeedAwayTeamID, HomeTeam: SeedAwayTeam,
			AwayTeamID: SeedHomeTeamID, AwayTeam: SeedHomeTeam,
			HomeGoals: 1, AwayGoals: 1, HTHomeGoals: 0, HTAwayGoals: 1,
			Status: fixture.StatusFinished,
		},
		{
			FixtureID: 8202, LeagueID: SeedLeagueID, Season: SeedSeason,
			KickoffAt:  SeedKickoff.AddDate(0, -18, 0),
			HomeTeamID: SeedHomeTeamID, HomeTeam: SeedHomeTeam,
			AwayTeamID: SeedAwayTeamID, AwayTeam: SeedAwayTeam,
			HomeGoals: 3, AwayGoals: 2, HTHomeGoals: 1, HTAwayGoals: 1,
			Status: fixture.StatusFinished,
		},
		{
			FixtureID: 8203, LeagueID: SeedLeagueID, Season: SeedSeason,
			KickoffAt:  SeedKickoff.AddDate(0, -24, 0),
			HomeTeamID: SeedAwayTeamID, HomeTeam: SeedAwayTeam,
			AwayTeamID: SeedHomeTeamID, AwayTeam: SeedHomeTeam,
			HomeGoals: 0, AwayGoals: 2, HTHomeGoals: 0, HTAwayGoals: 0,
			Status: fixture.StatusFinished,
		},
	}
}

// SeedDetailedStats returns per-fixture counters for the seeded home
// team's matches, keyed by fixture id. Only six of the ten matches
// have detailed coverage.
func SeedDetailedStats() map[int64]fixture.DetailedStats {
	out := make(map[int64]fixture.DetailedStats)
	for i := 0; i < 6; i++ {
		fixtureID := int64(8000 + i)
		out[fixtureID] = fixture.DetailedStats{
			FixtureID: fixtureID,
			Home: fixture.SideStats{
				Corners: 6, YellowCards: 2, ShotsOnTarget: 5, ShotsTotal: 12, Fouls: 11,
			},
			Away: fixture.SideStats{
				Corners: 4, YellowCards: 1, RedCards: 0, ShotsOnTarget: 3, ShotsTotal: 9, Fouls: 13,
			},
		}
	}
	return out
}
