package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

const studentTrendDays = 30

// StudentAnalyticsService projects a single student's rollup.
type StudentAnalyticsService struct {
	loader *RecordLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewStudentAnalyticsService constructs the projector.
func NewStudentAnalyticsService(loader *RecordLoader, logger *zap.Logger, now func() time.Time) *StudentAnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &StudentAnalyticsService{loader: loader, logger: logger, now: now}
}

// StudentAnalytics loads the student and projects their rollup. A missing student is ErrNotFound.
func (s *StudentAnalyticsService) StudentAnalytics(ctx context.Context, studentID string) (*models.StudentAnalytics, error) {
	record, err := s.loader.LoadOne(ctx, studentID)
	if err != nil {
		return nil, err
	}
	analytics := ProjectStudent(*record, s.now())
	return &analytics, nil
}

// ProjectStudent computes all-time totals, quiz accuracy and a 30-day words trend for one record.
func ProjectStudent(record models.UserRecord, now time.Time) models.StudentAnalytics {
	var words, minutes int
	daily := make(map[string]int, len(record.ActivityDays))
	for _, day := range record.ActivityDays {
		words += day.WordsLearned
		minutes += day.TimeSpentMinutes
		daily[models.DayKey(day.Date)] += day.WordsLearned
	}

	days := trailingDays(now, studentTrendDays)
	trend := make([]models.TrendPoint, len(days))
	for i, key := range days {
		trend[i] = models.TrendPoint{Date: key, Value: daily[key]}
	}

	mean, _ := quizMean(record.CourseProgress)
	progress := record.CourseProgress
	if progress == nil {
		progress = models.CourseProgress{}
	}

	return models.StudentAnalytics{
		StudentID:         record.UserID,
		DisplayName:       record.DisplayName,
		TotalWordsLearned: words,
		TotalTimeSpent:    minutes,
		AvgAccuracy:       meanRounded(mean, 1),
		CurrentStreak:     record.CurrentStreak,
		LongestStreak:     record.LongestStreak,
		DaysCompleted:     progress.CompletedDays(),
		ActivityTrend:     trend,
		CourseProgress:    progress,
	}
}
