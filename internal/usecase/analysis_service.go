package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/bet"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/fixture"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/cache"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/id"
	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/platform/logging"
)

const (
	defaultAnalysisWorkers = 4
	recentMatchesCount     = 10
	h2hMeetingsCount       = 10
)

type AnalysisConfig struct {
	Workers      int
	DefaultStake float64
}

// AnalysisService runs the full pipeline for a league: fetch history,
// build profiles, generate predictions, assemble combos and publish
// bets. The per-fixture computation is independent, so fixtures fan
// out over a worker pool; the provider client owns the rate limiting
// of the detail-statistics fetches.
type AnalysisService struct {
	provider      MatchDataProvider
	profileSvc    *ProfileService
	predictionSvc *PredictionService
	comboSvc      *ComboService

	predictionRepo prediction.Repository
	betRepo        bet.Repository

	store  *cache.Store
	idGen  id.Generator
	logger *logging.Logger
	cfg    AnalysisConfig
	now    func() time.Time
}

func NewAnalysisService(
	provider MatchDataProvider,
	profileSvc *ProfileService,
	predictionSvc *PredictionService,
	comboSvc *ComboService,
	predictionRepo prediction.Repository,
	betRepo bet.Repository,
	store *cache.Store,
	idGen id.Generator,
	logger *logging.Logger,
	cfg AnalysisConfig,
) *AnalysisService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultAnalysisWorkers
	}
	if cfg.DefaultStake <= 0 {
		cfg.DefaultStake = 100
	}
	return &AnalysisService{
		provider:       provider,
		profileSvc:     profileSvc,
		predictionSvc:  predictionSvc,
		comboSvc:       comboSvc,
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		store:          store,
		idGen:          idGen,
		logger:         logger,
		cfg:            cfg,
		now:            time.Now,
	}
}

type AnalysisRunResult struct {
	Fixtures    int `json:"fixtures"`
	Analyzed    int `json:"analyzed"`
	Skipped     int `json:"skipped"`
	Predictions int `json:"predictions"`
	Combos      int `json:"combos"`
	SingleBets  int `json:"single_bets"`
}

// AnalyzeLeague analyzes every upcoming fixture of a league within the
// horizon and publishes the surviving predictions as bets.
func (s *AnalysisService) AnalyzeLeague(ctx context.Context, leagueID int64, horizon time.Duration) (AnalysisRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.AnalyzeLeague")
	defer span.End()

	fixtures, err := s.provider.FetchUpcomingFixtures(ctx, leagueID, horizon)
	if err != nil {
		return AnalysisRunResult{}, fmt.Errorf("fetch upcoming fixtures league=%d: %w", leagueID, err)
	}
	return s.AnalyzeFixtures(ctx, fixtures)
}

// AnalyzeFixtures runs the pipeline for an explicit fixture list.
func (s *AnalysisService) AnalyzeFixtures(ctx context.Context, fixtures []fixture.Fixture) (AnalysisRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.AnalyzeFixtures")
	defer span.End()

	out := AnalysisRunResult{Fixtures: len(fixtures)}
	if len(fixtures) == 0 {
		return out, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return AnalysisRunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	all := make([]prediction.MarketPrediction, 0, len(fixtures)*3)
	analyzed, skipped := 0, 0

	var workers sync.WaitGroup
	for _, item := range fixtures {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			preds, runErr := s.analyzeFixture(ctx, item)
			mu.Lock()
			defer mu.Unlock()
			if runErr != nil {
				skipped++
				if !errors.Is(runErr, ErrInsufficientData) {
					s.logger.Warn("analyze fixture", "fixture_id", item.ID, "error", runErr)
				}
				return
			}
			analyzed++
			all = append(all, preds...)
		}); err != nil {
			workers.Done()
			mu.Lock()
			skipped++
			mu.Unlock()
		}
	}
	workers.Wait()

	out.Analyzed = analyzed
	out.Skipped = skipped
	out.Predictions = len(all)

	if len(all) > 0 {
		if err := s.predictionRepo.UpsertBatch(ctx, all); err != nil {
			return out, fmt.Errorf("persist predictions: %w", err)
		}
	}

	built, err := s.comboSvc.Build(ctx, all)
	if err != nil {
		return out, fmt.Errorf("build combos: %w", err)
	}
	out.Combos = len(built.Combos)

	for _, c := range built.Combos {
		if err := s.comboSvc.Save(ctx, c); err != nil {
			return out, err
		}
		if err := s.publishComboBet(ctx, c); err != nil {
			return out, err
		}
	}
	for _, pred := range built.Standalone {
		if err := s.publishSingleBet(ctx, pred); err != nil {
			return out, err
		}
		out.SingleBets++
	}

	return out, nil
}

// analyzeFixture builds both team profiles and generates the fixture's
// predictions. The result is memoized per fixture for the cache TTL so
// repeated runs inside one window do not refetch history.
func (s *AnalysisService) analyzeFixture(ctx context.Context, item fixture.Fixture) ([]prediction.MarketPrediction, error) {
	key := fmt.Sprintf("analysis:fixture:%d", item.ID)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.analyzeFixtureUncached(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	preds, _ := value.([]prediction.MarketPrediction)
	return preds, nil
}

func (s *AnalysisService) analyzeFixtureUncached(ctx context.Context, item fixture.Fixture) ([]prediction.MarketPrediction, error) {
	homeProfile, err := s.buildTeamProfile(ctx, item, item.HomeTeamID, item.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayProfile, err := s.buildTeamProfile(ctx, item, item.AwayTeamID, item.AwayTeam)
	if err != nil {
		return nil, err
	}

	var h2h *analysis.H2HProfile
	meetings, err := s.provider.FetchHeadToHead(ctx, item.HomeTeamID, item.AwayTeamID, h2hMeetingsCount)
	if err != nil {
		s.logger.Warn("fetch head to head", "fixture_id", item.ID, "error", err)
	} else if built, ok := s.profileSvc.BuildH2H(ctx, item.HomeTeamID, item.AwayTeamID, meetings, nil); ok {
		h2h = &built
	}

	odds, hasOdds, err := s.provider.FetchBookmakerOdds(ctx, item.ID)
	if err != nil {
		s.logger.Warn("fetch bookmaker odds", "fixture_id", item.ID, "error", err)
	}
	if !hasOdds {
		odds = nil
	}

	return s.predictionSvc.Generate(ctx, GeneratePredictionsInput{
		Fixture: item,
		Home:    homeProfile,
		Away:    awayProfile,
		H2H:     h2h,
		Odds:    odds,
	})
}

func (s *AnalysisService) buildTeamProfile(ctx context.Context, item fixture.Fixture, teamID int64, teamName string) (analysis.TeamProfile, error) {
	matches, err := s.provider.FetchTeamRecentMatches(ctx, teamID, recentMatchesCount)
	if err != nil {
		return analysis.TeamProfile{}, fmt.Errorf("fetch recent matches team=%d: %w", teamID, err)
	}

	// Detail statistics are best effort: a missing or failed fetch
	// leaves the match out of the detailed denominator instead of
	// failing the profile.
	detailed := make(map[int64]fixture.DetailedStats, len(matches))
	for _, match := range matches {
		if !fixture.IsFinishedStatus(match.Status) {
			continue
		}
		stats, ok, err := s.provider.FetchFixtureStatistics(ctx, match.FixtureID)
		if err != nil {
			s.logger.Debug("fetch fixture statistics", "fixture_id", match.FixtureID, "error", err)
			continue
		}
		if ok {
			detailed[match.FixtureID] = stats
		}
	}

	profile, err := s.profileSvc.BuildProfile(ctx, BuildProfileInput{
		TeamID:        teamID,
		TeamName:      teamName,
		LeagueID:      item.LeagueID,
		Season:        item.Season,
		Matches:       matches,
		DetailedStats: detailed,
	})
	if err != nil {
		return analysis.TeamProfile{}, err
	}
	if err := s.profileSvc.SaveProfile(ctx, profile); err != nil {
		return analysis.TeamProfile{}, err
	}
	return profile, nil
}

func (s *AnalysisService) publishSingleBet(ctx context.Context, pred prediction.MarketPrediction) error {
	betID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate bet id: %w", err)
	}
	b := bet.Bet{
		ID:        betID,
		Kind:      bet.KindSingle,
		FixtureID: pred.FixtureID,
		HomeTeam:  pred.HomeTeam,
		AwayTeam:  pred.AwayTeam,
		KickoffAt: pred.KickoffAt,
		Market:    pred.Market,
		Outcome:   pred.Outcome,
		Odd:       pred.SuggestedOdd,
		Stake:     s.cfg.DefaultStake,
		Status:    bet.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.betRepo.Create(ctx, b); err != nil {
		return fmt.Errorf("create single bet fixture=%d: %w", pred.FixtureID, err)
	}
	return nil
}

func (s *AnalysisService) publishComboBet(ctx context.Context, c combo.ComboBet) error {
	betID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate bet id: %w", err)
	}
	b := bet.Bet{
		ID:        betID,
		Kind:      bet.KindCombo,
		ComboID:   c.ID,
		Legs:      c.Legs,
		Odd:       c.TotalOdd,
		Stake:     s.cfg.DefaultStake,
		Status:    bet.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.betRepo.Create(ctx, b); err != nil {
		return fmt.Errorf("create combo bet combo=%s: %w", c.ID, err)
	}
	return nil
}
