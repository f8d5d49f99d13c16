package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
)

const (
	// minMatchesForProfile is the floor under which a fixture is
	// skipped entirely rather than analyzed on thin history.
	minMatchesForProfile = 5
	profileWindowSize    = 10
	formWindowSize       = 5
	minH2HMeetings       = 3
)

type ProfileService struct {
	profileRepo analysis.Repository
	now         func() time.Time
}

func NewProfileService(profileRepo analysis.Repository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

type BuildProfileInput struct {
	TeamID   int64
	TeamName string
	LeagueID int64
	Season   int

	// Matches are the team's recent matches, newest first. Unfinished
	// entries are ignored.
	Matches []fixture.MatchSummary

	// DetailedStats is keyed by fixture id and may cover only part of
	// the window; the secondary-market averages divide by the matches
	// that actually have stats so missing entries never dilute them.
	DetailedStats map[int64]fixture.DetailedStats

	LeagueRank int
	LeagueSize int
}

// BuildProfile aggregates the team's recent finished matches into an
// immutable TeamProfile. Returns ErrInsufficientData when fewer than
// five finished matches are available.
func (s *ProfileService) BuildProfile(ctx context.Context, input BuildProfileInput) (analysis.TeamProfile, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ProfileService.BuildProfile")
	defer span.End()

	if input.TeamID <= 0 {
		return analysis.TeamProfile{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	window := make([]fixture.MatchSummary, 0, profileWindowSize)
	for _, match := range input.Matches {
		if !fixture.IsFinishedStatus(match.Status) {
			continue
		}
		if match.HomeTeamID != input.TeamID && match.AwayTeamID != input.TeamID {
			continue
		}
		window = append(window, match)
		if len(window) == profileWindowSize {
			break
		}
	}
	if len(window) < minMatchesForProfile {
		return analysis.TeamProfile{}, fmt.Errorf("%w: team=%d finished=%d", ErrInsufficientData, input.TeamID, len(window))
	}

	profile := analysis.TeamProfile{
		TeamID:          input.TeamID,
		TeamName:        input.TeamName,
		LeagueID:        input.LeagueID,
		Season:          input.Season,
		MatchesAnalyzed: len(window),
		LeagueRank:      input.LeagueRank,
		LeagueSize:      input.LeagueSize,
		GeneratedAt:     s.now().UTC(),
	}

	var (
		scored, conceded             int
		scoredHome, concededHome     int
		scoredAway, concededAway     int
		homeMatches, awayMatches     int
		over05, over15, over25       int
		over35, btts                 int
		cleanSheets, failedToScore   int
		firstHalfGoal, wins          int
		corners, cards, shots, fouls int
		cornersOver, cardsOver       int
		shotsOver                    int
	)

	for idx, match := range window {
		atHome := match.HomeTeamID == input.TeamID
		teamGoals, oppGoals := match.HomeGoals, match.AwayGoals
		if !atHome {
			teamGoals, oppGoals = match.AwayGoals, match.HomeGoals
		}

		scored += teamGoals
		conceded += oppGoals
		if atHome {
			homeMatches++
			scoredHome += teamGoals
			concededHome += oppGoals
		} else {
			awayMatches++
			scoredAway += teamGoals
			concededAway += oppGoals
		}

		total := match.TotalGoals()
		if total > 0 {
			over05++
		}
		if total > 1 {
			over15++
		}
		if total > 2 {
			over25++
		}
		if total > 3 {
			over35++
		}
		if match.BothScored() {
			btts++
		}
		if oppGoals == 0 {
			cleanSheets++
		}
		if teamGoals == 0 {
			failedToScore++
		}
		if match.FirstHalfGoals() > 0 {
			firstHalfGoal++
		}
		if teamGoals > oppGoals {
			wins++
			if idx < formWindowSize {
				profile.FormPoints += 3
			}
		} else if teamGoals == oppGoals && idx < formWindowSize {
			profile.FormPoints++
		}

		stats, ok := input.DetailedStats[match.FixtureID]
		if !ok {
			continue
		}
		profile.MatchesWithDetailedStats++
		side := stats.Home
		if !atHome {
			side = stats.Away
		}
		corners += side.Corners
		cards += side.Cards()
		shots += side.ShotsOnTarget
		fouls += side.Fouls
		if float64(stats.TotalCorners()) > analysis.CornersReferenceLine {
			cornersOver++
		}
		if float64(stats.TotalCards()) > analysis.CardsReferenceLine {
			cardsOver++
		}
		if float64(stats.TotalShotsOnTarget()) > analysis.ShotsReferenceLine {
			shotsOver++
		}
	}

	n := len(window)
	profile.GoalsScoredAvg = round2(avg(scored, n))
	profile.GoalsConcededAvg = round2(avg(conceded, n))
	profile.GoalsScoredHomeAvg = round2(avg(scoredHome, homeMatches))
	profile.GoalsConcededHomeAvg = round2(avg(concededHome, homeMatches))
	profile.GoalsScoredAwayAvg = round2(avg(scoredAway, awayMatches))
	profile.GoalsConcededAwayAvg = round2(avg(concededAway, awayMatches))

	profile.Over05Pct = pct(over05, n)
	profile.Over15Pct = pct(over15, n)
	profile.Over25Pct = pct(over25, n)
	profile.Over35Pct = pct(over35, n)
	profile.BTTSPct = pct(btts, n)
	profile.CleanSheetPct = pct(cleanSheets, n)
	profile.FailedToScorePct = pct(failedToScore, n)
	profile.FirstHalfGoalPct = pct(firstHalfGoal, n)
	profile.WinPct = pct(wins, n)

	if profile.MatchesWithDetailedStats > 0 {
		detailed := profile.MatchesWithDetailedStats
		profile.CornersAvg = round2(avg(corners, detailed))
		profile.CardsAvg = round2(avg(cards, detailed))
		profile.ShotsOnTargetAvg = round2(avg(shots, detailed))
		profile.FoulsAvg = round2(avg(fouls, detailed))
		profile.CornersOverPct = pct(cornersOver, detailed)
		profile.CardsOverPct = pct(cardsOver, detailed)
		profile.ShotsOverPct = pct(shotsOver, detailed)
	}

	return profile, nil
}

// SaveProfile persists a built profile for the current analysis run.
func (s *ProfileService) SaveProfile(ctx context.Context, profile analysis.TeamProfile) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.SaveProfile")
	defer span.End()

	if err := s.profileRepo.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("upsert team profile team=%d: %w", profile.TeamID, err)
	}
	return nil
}

// BuildH2H aggregates the head-to-head meetings of two teams. The
// second return is false when fewer than three meetings exist.
func (s *ProfileService) BuildH2H(ctx context.Context, teamAID, teamBID int64, meetings []fixture.MatchSummary, stats map[int64]fixture.DetailedStats) (analysis.H2HProfile, bool) {
	_, span := startUsecaseSpan(ctx, "usecase.ProfileService.BuildH2H")
	defer span.End()

	finished := make([]fixture.MatchSummary, 0, len(meetings))
	for _, match := range meetings {
		if fixture.IsFinishedStatus(match.Status) {
			finished = append(finished, match)
		}
	}
	if len(finished) < minH2HMeetings {
		return analysis.H2HProfile{}, false
	}

	out := analysis.H2HProfile{
		TeamAID:  teamAID,
		TeamBID:  teamBID,
		Meetings: len(finished),
	}

	goals := 0
	over25 := 0
	btts := 0
	cornersTotal, cardsTotal, withStats := 0, 0, 0
	for _, match := range finished {
		goals += match.TotalGoals()
		if match.TotalGoals() > 2 {
			over25++
		}
		if match.BothScored() {
			btts++
		}

		winnerID := int64(0)
		switch {
		case match.HomeGoals > match.AwayGoals:
			winnerID = match.HomeTeamID
		case match.AwayGoals > match.HomeGoals:
			winnerID = match.AwayTeamID
		}
		switch winnerID {
		case teamAID:
			out.TeamAWins++
		case teamBID:
			out.TeamBWins++
		default:
			out.Draws++
		}

		if st, ok := stats[match.FixtureID]; ok {
			withStats++
			cornersTotal += st.TotalCorners()
			cardsTotal += st.TotalCards()
		}
	}

	out.AvgGoals = round2(avg(goals, len(finished)))
	out.Over25Pct = pct(over25, len(finished))
	out.BTTSPct = pct(btts, len(finished))
	if withStats > 0 {
		out.AvgCorners = round2(avg(cornersTotal, withStats))
		out.AvgCards = round2(avg(cardsTotal, withStats))
	}
	return out, true
}

func avg(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func pct(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
