package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

// DefaultLeaderboardLimit is used when a filter carries no positive limit.
const DefaultLeaderboardLimit = 50

// LeaderboardServiceConfig tunes leaderboard behaviour.
type LeaderboardServiceConfig struct {
	DefaultLimit int
	CacheTTL     time.Duration
}

// LeaderboardServiceParams groups constructor dependencies.
type LeaderboardServiceParams struct {
	Loader     *RecordLoader
	Population *PopulationSelector
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Now        func() time.Time
	Config     LeaderboardServiceConfig
}

// LeaderboardService builds ranked leaderboards and resolves user positions.
type LeaderboardService struct {
	loader     *RecordLoader
	population *PopulationSelector
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	cfg        LeaderboardServiceConfig
}

// NewLeaderboardService constructs a LeaderboardService with sane defaults.
func NewLeaderboardService(params LeaderboardServiceParams) *LeaderboardService {
	cfg := params.Config
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLeaderboardLimit
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	population := params.Population
	if population == nil {
		population = NewPopulationSelector(nil)
	}
	return &LeaderboardService{
		loader:     params.Loader,
		population: population,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger,
		now:        now,
		cfg:        cfg,
	}
}

// ranking is the full, untruncated ranked list for a filter.
type ranking struct {
	Window  Window                    `json:"window"`
	Entries []models.LeaderboardEntry `json:"entries"`
}

// Build returns the leaderboard for filter. The boolean reports whether the ranking came from cache.
func (s *LeaderboardService) Build(ctx context.Context, filter models.LeaderboardFilter) (*models.Leaderboard, bool, error) {
	ranked, cacheHit, err := s.rank(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	return &models.Leaderboard{
		Metric:      filter.Metric,
		Period:      filter.Period,
		Scope:       filter.Scope,
		Entries:     selectEntries(ranked.Entries, limit, filter.RequestingUserID),
		PeriodStart: ranked.Window.Start,
		PeriodEnd:   ranked.Window.End,
	}, cacheHit, nil
}

// Position resolves the requesting user's standing. A nil position means the user has no qualifying entry.
func (s *LeaderboardService) Position(ctx context.Context, filter models.LeaderboardFilter) (*models.UserLeaderboardPosition, bool, error) {
	if filter.RequestingUserID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "position requires a requesting user")
	}
	ranked, cacheHit, err := s.rank(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	return positionOf(ranked.Entries, filter.RequestingUserID), cacheHit, nil
}

func (s *LeaderboardService) rank(ctx context.Context, filter models.LeaderboardFilter) (ranking, bool, error) {
	key := leaderboardCacheKey(filter)
	var cached ranking
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	start := time.Now()
	window := ResolvePeriod(filter.Period, s.now())
	population, err := s.population.Select(ctx, filter.Scope, filter.RequestingUserID)
	if err != nil {
		return ranking{}, false, err
	}

	var records []models.UserRecord
	if population.Global {
		records, err = s.loader.ListAll(ctx)
	} else {
		records, err = s.loader.LoadMany(ctx, population.UserIDs)
	}
	if err != nil {
		return ranking{}, false, err
	}

	result := ranking{Window: window, Entries: RankRecords(records, filter.Metric, window)}
	s.metrics.ObserveCompute("leaderboard", len(records), time.Since(start))
	s.logger.Debug("leaderboard ranked",
		zap.String("metric", string(filter.Metric)),
		zap.String("period", string(filter.Period)),
		zap.String("scope", string(filter.Scope)),
		zap.Int("candidates", len(records)),
		zap.Int("ranked", len(result.Entries)),
	)

	s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	return result, false, nil
}

// RankRecords scores each record, drops zero scores (except for streaks), sorts descending and
// assigns standard competition ranks. Ties keep input order.
func RankRecords(records []models.UserRecord, metric models.Metric, window Window) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(records))
	for _, record := range records {
		score := Score(record, metric, window)
		if score == 0 && metric != models.MetricCurrentStreak {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:      record.UserID,
			DisplayName: record.DisplayName,
			PhotoURL:    record.PhotoURL,
			Score:       score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}

// selectEntries truncates the ranking to limit and appends the requester's entry when it fell outside.
func selectEntries(ranked []models.LeaderboardEntry, limit int, requesterID string) []models.LeaderboardEntry {
	size := limit
	if size > len(ranked) {
		size = len(ranked)
	}
	entries := make([]models.LeaderboardEntry, size, size+1)
	copy(entries, ranked[:size])

	if requesterID == "" {
		return entries
	}
	for i := range entries {
		if entries[i].UserID == requesterID {
			entries[i].IsRequestingUser = true
			return entries
		}
	}
	for _, entry := range ranked[size:] {
		if entry.UserID == requesterID {
			entry.IsRequestingUser = true
			return append(entries, entry)
		}
	}
	return entries
}

func positionOf(ranked []models.LeaderboardEntry, userID string) *models.UserLeaderboardPosition {
	total := len(ranked)
	for _, entry := range ranked {
		if entry.UserID != userID {
			continue
		}
		return &models.UserLeaderboardPosition{
			Rank:              entry.Rank,
			Score:             entry.Score,
			TotalParticipants: total,
			Percentile:        Percentile(entry.Rank, total),
		}
	}
	return nil
}

// Percentile returns round((total-rank+1)/total*100), or 0 for an empty population.
func Percentile(rank, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(total-rank+1) / float64(total) * 100))
}

// FlushCache drops every cached leaderboard ranking.
func (s *LeaderboardService) FlushCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx, leaderboardCachePrefix+":*")
}

const leaderboardCachePrefix = "leaderboard:v1"

func leaderboardCacheKey(filter models.LeaderboardFilter) string {
	requester := ""
	if filter.Scope == models.ScopeFriends {
		requester = filter.RequestingUserID
	}
	return cacheKey(leaderboardCachePrefix, string(filter.Metric), string(filter.Period), string(filter.Scope), requester)
}
