package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

// UserRecordReader is the record repository consumed by the engine.
type UserRecordReader interface {
	GetUserRecord(ctx context.Context, userID string) (*models.UserRecord, error)
	ListUserRecords(ctx context.Context, filter models.UserRecordFilter) ([]models.UserRecord, error)
}

// Read outcomes reported to metrics.
const (
	readOK      = "ok"
	readMissing = "missing"
	readTimeout = "timeout"
	readError   = "error"
)

// RecordLoaderConfig bounds the fan-out.
type RecordLoaderConfig struct {
	Workers     int
	ReadTimeout time.Duration
}

// RecordLoader fetches user records concurrently with a fixed worker limit and a per-read timeout.
type RecordLoader struct {
	repo    UserRecordReader
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RecordLoaderConfig
}

// NewRecordLoader constructs a loader with defaults for unset limits.
func NewRecordLoader(repo UserRecordReader, metrics *MetricsService, logger *zap.Logger, cfg RecordLoaderConfig) *RecordLoader {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordLoader{repo: repo, metrics: metrics, logger: logger, cfg: cfg}
}

// LoadOne fetches a single record under the per-read timeout. Absence is returned as ErrNotFound.
func (l *RecordLoader) LoadOne(ctx context.Context, userID string) (*models.UserRecord, error) {
	record, err := l.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// LoadMany fetches records for ids, preserving input order and dropping duplicates.
// Missing, failed and timed-out reads are excluded. An error is returned only when ctx itself ends.
func (l *RecordLoader) LoadMany(ctx context.Context, ids []string) ([]models.UserRecord, error) {
	ids = lo.Uniq(ids)
	results := make([]*models.UserRecord, len(ids))

	var g errgroup.Group
	g.SetLimit(l.cfg.Workers)
	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		i, id := i, id
		g.Go(func() error {
			record, err := l.read(ctx, id)
			if err != nil {
				l.logger.Debug("skipping user record", zap.String("user_id", id), zap.Error(err))
				return nil
			}
			results[i] = record
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]models.UserRecord, 0, len(ids))
	for _, record := range results {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}

// ListAll scans the full population for global rankings.
func (l *RecordLoader) ListAll(ctx context.Context) ([]models.UserRecord, error) {
	start := time.Now()
	records, err := l.repo.ListUserRecords(ctx, models.UserRecordFilter{})
	l.metrics.ObserveDBQuery("list_user_records", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("scan user records: %w", err)
	}
	return records, nil
}

func (l *RecordLoader) read(ctx context.Context, userID string) (*models.UserRecord, error) {
	readCtx, cancel := context.WithTimeout(ctx, l.cfg.ReadTimeout)
	defer cancel()

	start := time.Now()
	record, err := l.repo.GetUserRecord(readCtx, userID)
	l.metrics.ObserveDBQuery("get_user_record", time.Since(start))
	if err == nil && record == nil {
		err = appErrors.Clone(appErrors.ErrNotFound, "user record not found")
	}
	l.metrics.RecordRead(classifyRead(err))
	return record, err
}

func classifyRead(err error) string {
	switch {
	case err == nil:
		return readOK
	case appErrors.IsNotFound(err):
		return readMissing
	case errors.Is(err, context.DeadlineExceeded):
		return readTimeout
	default:
		return readError
	}
}
