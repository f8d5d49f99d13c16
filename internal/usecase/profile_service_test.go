package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/infrastructure/repository/memory"
)

const (
	profileTeamID = int64(10)
	profileOppID  = int64(20)
)

// profileTestMatches returns six finished matches for team 10, newest
// first, alternating home and away.
func profileTestMatches() []fixture.MatchSummary {
	kickoff := time.Date(2025, 8, 1, 19, 0, 0, 0, time.UTC)
	matches := []fixture.MatchSummary{
		{FixtureID: 1, HomeTeamID: profileTeamID, AwayTeamID: profileOppID, HomeGoals: 2, AwayGoals: 1, HTHomeGoals: 1, HTAwayGoals: 0},
		{FixtureID: 2, HomeTeamID: profileOppID, AwayTeamID: profileTeamID, HomeGoals: 0, AwayGoals: 0},
		{FixtureID: 3, HomeTeamID: profileTeamID, AwayTeamID: profileOppID, HomeGoals: 3, AwayGoals: 2, HTHomeGoals: 1, HTAwayGoals: 1},
		{FixtureID: 4, HomeTeamID: profileOppID, AwayTeamID: profileTeamID, HomeGoals: 2, AwayGoals: 1, HTHomeGoals: 1, HTAwayGoals: 0},
		{FixtureID: 5, HomeTeamID: profileTeamID, AwayTeamID: profileOppID, HomeGoals: 1, AwayGoals: 0},
		{FixtureID: 6, HomeTeamID: profileOppID, AwayTeamID: profileTeamID, HomeGoals: 2, AwayGoals: 2, HTHomeGoals: 1, HTAwayGoals: 1},
	}
	for i := range matches {
		matches[i].LeagueID = 71
		matches[i].Season = 2025
		matches[i].Status = fixture.StatusFinished
		matches[i].KickoffAt = kickoff.AddDate(0, 0, -7*i)
	}
	return matches
}

func profileTestStats() map[int64]fixture.DetailedStats {
	return map[int64]fixture.DetailedStats{
		1: {
			FixtureID: 1,
			Home:      fixture.SideStats{Corners: 2, YellowCards: 1, ShotsOnTarget: 4, ShotsTotal: 9, Fouls: 9},
			Away:      fixture.SideStats{Corners: 3, Fouls: 11},
		},
		3: {
			FixtureID: 3,
			Home:      fixture.SideStats{Corners: 7, YellowCards: 1, RedCards: 1, ShotsOnTarget: 6, ShotsTotal: 14, Fouls: 10},
			Away:      fixture.SideStats{Corners: 2, YellowCards: 1, ShotsOnTarget: 1, Fouls: 8},
		},
	}
}

func TestBuildProfile_Aggregation(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(memory.NewProfileRepository())
	profile, err := svc.BuildProfile(context.Background(), BuildProfileInput{
		TeamID:        profileTeamID,
		TeamName:      "Flamengo",
		LeagueID:      71,
		Season:        2025,
		Matches:       profileTestMatches(),
		DetailedStats: profileTestStats(),
		LeagueRank:    2,
		LeagueSize:    20,
	})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if profile.MatchesAnalyzed != 6 {
		t.Fatalf("MatchesAnalyzed = %d, want 6", profile.MatchesAnalyzed)
	}
	goalChecks := map[string][2]float64{
		"GoalsScoredAvg":       {profile.GoalsScoredAvg, 1.5},
		"GoalsConcededAvg":     {profile.GoalsConcededAvg, 1.17},
		"GoalsScoredHomeAvg":   {profile.GoalsScoredHomeAvg, 2.0},
		"GoalsConcededHomeAvg": {profile.GoalsConcededHomeAvg, 1.0},
		"GoalsScoredAwayAvg":   {profile.GoalsScoredAwayAvg, 1.0},
		"GoalsConcededAwayAvg": {profile.GoalsConcededAwayAvg, 1.33},
	}
	for name, got := range goalChecks {
		if got[0] != got[1] {
			t.Errorf("%s = %v, want %v", name, got[0], got[1])
		}
	}

	pctChecks := map[string][2]float64{
		"Over05Pct":        {profile.Over05Pct, 83.3},
		"Over15Pct":        {profile.Over15Pct, 66.7},
		"Over25Pct":        {profile.Over25Pct, 66.7},
		"Over35Pct":        {profile.Over35Pct, 33.3},
		"BTTSPct":          {profile.BTTSPct, 66.7},
		"CleanSheetPct":    {profile.CleanSheetPct, 33.3},
		"FailedToScorePct": {profile.FailedToScorePct, 16.7},
		"FirstHalfGoalPct": {profile.FirstHalfGoalPct, 66.7},
		"WinPct":           {profile.WinPct, 50},
	}
	for name, got := range pctChecks {
		if got[0] != got[1] {
			t.Errorf("%s = %v, want %v", name, got[0], got[1])
		}
	}

	if profile.FormPoints != 10 {
		t.Errorf("FormPoints = %d, want 10", profile.FormPoints)
	}
	if profile.GeneratedAt.IsZero() {
		t.Errorf("GeneratedAt not set")
	}
}

func TestBuildProfile_DetailedStatsDivideByCoveredMatches(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(memory.NewProfileRepository())
	profile, err := svc.BuildProfile(context.Background(), BuildProfileInput{
		TeamID:        profileTeamID,
		Matches:       profileTestMatches(),
		DetailedStats: profileTestStats(),
	})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if profile.MatchesWithDetailedStats != 2 {
		t.Fatalf("MatchesWithDetailedStats = %d, want 2", profile.MatchesWithDetailedStats)
	}
	if profile.CornersAvg != 4.5 {
		t.Errorf("CornersAvg = %v, want 4.5", profile.CornersAvg)
	}
	if profile.CardsAvg != 1.5 {
		t.Errorf("CardsAvg = %v, want 1.5", profile.CardsAvg)
	}
	if profile.ShotsOnTargetAvg != 5.0 {
		t.Errorf("ShotsOnTargetAvg = %v, want 5.0", profile.ShotsOnTargetAvg)
	}
	if profile.FoulsAvg != 9.5 {
		t.Errorf("FoulsAvg = %v, want 9.5", profile.FoulsAvg)
	}
	if profile.CornersOverPct != 50 {
		t.Errorf("CornersOverPct = %v, want 50", profile.CornersOverPct)
	}
	if profile.CardsOverPct != 50 {
		t.Errorf("CardsOverPct = %v, want 50", profile.CardsOverPct)
	}
	if profile.ShotsOverPct != 100 {
		t.Errorf("ShotsOverPct = %v, want 100", profile.ShotsOverPct)
	}
}

func TestBuildProfile_SkipsUnfinishedAndForeignMatches(t *testing.T) {
	t.Parallel()

	matches := profileTestMatches()
	noise := []fixture.MatchSummary{
		{FixtureID: 90, HomeTeamID: profileTeamID, AwayTeamID: profileOppID, HomeGoals: 9, AwayGoals: 9, Status: fixture.StatusLive},
		{FixtureID: 91, HomeTeamID: 30, AwayTeamID: 40, HomeGoals: 5, AwayGoals: 5, Status: fixture.StatusFinished},
	}
	svc := NewProfileService(memory.NewProfileRepository())
	profile, err := svc.BuildProfile(context.Background(), BuildProfileInput{
		TeamID:  profileTeamID,
		Matches: append(noise, matches...),
	})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if profile.MatchesAnalyzed != 6 {
		t.Fatalf("MatchesAnalyzed = %d, want 6", profile.MatchesAnalyzed)
	}
	if profile.GoalsScoredAvg != 1.5 {
		t.Errorf("GoalsScoredAvg = %v, want 1.5 after filtering noise", profile.GoalsScoredAvg)
	}
}

func TestBuildProfile_InsufficientData(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(memory.NewProfileRepository())
	_, err := svc.BuildProfile(context.Background(), BuildProfileInput{
		TeamID:  profileTeamID,
		Matches: profileTestMatches()[:4],
	})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}

	_, err = svc.BuildProfile(context.Background(), BuildProfileInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for missing team id", err)
	}
}

func TestSaveProfile_Persists(t *testing.T) {
	t.Parallel()

	repo := memory.NewProfileRepository()
	svc := NewProfileService(repo)

	profile, err := svc.BuildProfile(context.Background(), BuildProfileInput{
		TeamID:  profileTeamID,
		Matches: profileTestMatches(),
	})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if err := svc.SaveProfile(context.Background(), profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	stored, ok, err := repo.GetProfile(context.Background(), profileTeamID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !ok {
		t.Fatalf("profile not found after save")
	}
	if stored.GoalsScoredAvg != profile.GoalsScoredAvg {
		t.Fatalf("stored GoalsScoredAvg = %v, want %v", stored.GoalsScoredAvg, profile.GoalsScoredAvg)
	}
}

func TestBuildH2H(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(memory.NewProfileRepository())
	teamA, teamB := int64(10), int64(20)

	meetings := []fixture.MatchSummary{
		{FixtureID: 201, HomeTeamID: teamA, AwayTeamID: teamB, HomeGoals: 2, AwayGoals: 0, Status: fixture.StatusFinished},
		{FixtureID: 202, HomeTeamID: teamB, AwayTeamID: teamA, HomeGoals: 1, AwayGoals: 1, Status: fixture.StatusFinished},
		{FixtureID: 203, HomeTeamID: teamA, AwayTeamID: teamB, HomeGoals: 0, AwayGoals: 1, Status: fixture.StatusFinished},
		{FixtureID: 204, HomeTeamID: teamB, AwayTeamID: teamA, HomeGoals: 3, AwayGoals: 2, Status: fixture.StatusFinished},
	}
	stats := map[int64]fixture.DetailedStats{
		201: {FixtureID: 201, Home: fixture.SideStats{Corners: 6, YellowCards: 2}, Away: fixture.SideStats{Corners: 4, YellowCards: 1}},
		204: {FixtureID: 204, Home: fixture.SideStats{Corners: 5, YellowCards: 3}, Away: fixture.SideStats{Corners: 3, YellowCards: 1, RedCards: 1}},
	}

	t.Run("too few meetings", func(t *testing.T) {
		t.Parallel()
		_, ok := svc.BuildH2H(context.Background(), teamA, teamB, meetings[:2], nil)
		if ok {
			t.Fatalf("BuildH2H ok on two meetings, want false")
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		t.Parallel()
		h2h, ok := svc.BuildH2H(context.Background(), teamA, teamB, meetings, stats)
		if !ok {
			t.Fatalf("BuildH2H not ok")
		}
		if h2h.Meetings != 4 {
			t.Fatalf("Meetings = %d, want 4", h2h.Meetings)
		}
		if h2h.TeamAWins != 1 || h2h.Draws != 1 || h2h.TeamBWins != 2 {
			t.Errorf("record = %d/%d/%d, want 1/1/2", h2h.TeamAWins, h2h.Draws, h2h.TeamBWins)
		}
		if h2h.AvgGoals != 2.5 {
			t.Errorf("AvgGoals = %v, want 2.5", h2h.AvgGoals)
		}
		if h2h.Over25Pct != 25 {
			t.Errorf("Over25Pct = %v, want 25", h2h.Over25Pct)
		}
		if h2h.BTTSPct != 50 {
			t.Errorf("BTTSPct = %v, want 50", h2h.BTTSPct)
		}
		if h2h.AvgCorners != 9.0 {
			t.Errorf("AvgCorners = %v, want 9.0", h2h.AvgCorners)
		}
		if h2h.AvgCards != 4.0 {
			t.Errorf("AvgCards = %v, want 4.0", h2h.AvgCards)
		}
	})
}
