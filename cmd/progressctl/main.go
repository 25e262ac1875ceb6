package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/repository"
	"github.com/noah-isme/learning-progress-api/internal/service"
	"github.com/noah-isme/learning-progress-api/pkg/cache"
	"github.com/noah-isme/learning-progress-api/pkg/config"
	"github.com/noah-isme/learning-progress-api/pkg/database"
	"github.com/noah-isme/learning-progress-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "progressctl",
	Short:         "Inspect leaderboards and learning analytics from the configured database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openEngine connects to the database and wires the engine. Overridden in tests.
var openEngine = func(ctx context.Context) (*engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		if redisClient, err = cache.NewRedis(ctx, cfg.Redis); err != nil {
			logr.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	eng := newEngine(engineDeps{
		Records: repository.NewUserRecordRepository(db),
		Friends: repository.NewFriendRepository(db),
		Rosters: repository.NewRosterRepository(db),
		Cache: service.NewCacheService(cacheRepo, nil, cfg.Leaderboard.CacheTTL, logr,
			cfg.Leaderboard.CacheEnabled && redisClient != nil),
		Logger: logr,
		Now:    func() time.Time { return time.Now().In(cfg.Analytics.Location()) },
		FanOut: service.RecordLoaderConfig{
			Workers:     cfg.FanOut.Workers,
			ReadTimeout: cfg.FanOut.ReadTimeout,
		},
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
	})
	cleanup := func() {
		_ = cacheRepo.Close()
		_ = db.Close()
		_ = logr.Sync()
	}
	return eng, cleanup, nil
}

type engineDeps struct {
	Records      service.UserRecordReader
	Friends      service.FriendReader
	Rosters      service.RosterReader
	Cache        *service.CacheService
	Logger       *zap.Logger
	Now          func() time.Time
	FanOut       service.RecordLoaderConfig
	DefaultLimit int
}

type engine struct {
	leaderboards *service.LeaderboardService
	classes      *service.ClassAnalyticsService
	alerts       *service.AlertService
	students     *service.StudentAnalyticsService
}

func newEngine(deps engineDeps) *engine {
	loader := service.NewRecordLoader(deps.Records, nil, deps.Logger, deps.FanOut)
	return &engine{
		leaderboards: service.NewLeaderboardService(service.LeaderboardServiceParams{
			Loader:     loader,
			Population: service.NewPopulationSelector(deps.Friends),
			Cache:      deps.Cache,
			Logger:     deps.Logger,
			Now:        deps.Now,
			Config:     service.LeaderboardServiceConfig{DefaultLimit: deps.DefaultLimit},
		}),
		classes: service.NewClassAnalyticsService(service.ClassAnalyticsServiceParams{
			Rosters: deps.Rosters,
			Loader:  loader,
			Logger:  deps.Logger,
			Now:     deps.Now,
		}),
		alerts:   service.NewAlertService(loader, deps.Logger, deps.Now),
		students: service.NewStudentAnalyticsService(loader, deps.Logger, deps.Now),
	}
}

// withEngine runs fn against a freshly wired engine and prints its result as indented JSON.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, eng *engine) (interface{}, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := fn(ctx, eng)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
