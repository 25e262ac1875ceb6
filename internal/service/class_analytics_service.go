package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

// Classroom rollup list sizes.
const (
	topPerformerLimit   = 5
	needsAttentionLimit = 5
)

// RosterReader resolves class rosters. A missing class is ErrNotFound.
type RosterReader interface {
	GetClassRoster(ctx context.Context, classID string) (*models.ClassRoster, error)
}

// ClassAnalyticsService aggregates classroom analytics for teachers.
type ClassAnalyticsService struct {
	rosters RosterReader
	loader  *RecordLoader
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// ClassAnalyticsServiceParams groups constructor dependencies.
type ClassAnalyticsServiceParams struct {
	Rosters RosterReader
	Loader  *RecordLoader
	Metrics *MetricsService
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewClassAnalyticsService constructs the aggregator.
func NewClassAnalyticsService(params ClassAnalyticsServiceParams) *ClassAnalyticsService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ClassAnalyticsService{
		rosters: params.Rosters,
		loader:  params.Loader,
		metrics: params.Metrics,
		logger:  logger,
		now:     now,
	}
}

// Roster resolves a class roster strictly.
func (s *ClassAnalyticsService) Roster(ctx context.Context, classID string) (*models.ClassRoster, error) {
	return s.rosters.GetClassRoster(ctx, classID)
}

// ClassAnalytics returns the dashboard rollup for the class over period.
func (s *ClassAnalyticsService) ClassAnalytics(ctx context.Context, classID string, period models.AnalyticsPeriod) (*models.ClassAnalytics, error) {
	report, err := s.ClassReport(ctx, classID, period)
	if err != nil {
		return nil, err
	}
	return &report.Analytics, nil
}

// ClassReport resolves the roster and aggregates every enrolled student.
func (s *ClassAnalyticsService) ClassReport(ctx context.Context, classID string, period models.AnalyticsPeriod) (*models.ClassReport, error) {
	roster, err := s.rosters.GetClassRoster(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, *roster, period)
}

// Aggregate computes the rollup for an already resolved roster. Unreadable students are skipped.
func (s *ClassAnalyticsService) Aggregate(ctx context.Context, roster models.ClassRoster, period models.AnalyticsPeriod) (*models.ClassReport, error) {
	start := time.Now()
	records, err := s.loader.LoadMany(ctx, roster.StudentIDs)
	if err != nil {
		return nil, err
	}
	now := s.now()
	report := AggregateClass(roster, records, period, now)
	s.metrics.ObserveCompute("class_analytics", len(records), time.Since(start))
	if skipped := len(roster.StudentIDs) - len(records); skipped > 0 {
		s.logger.Info("class analytics skipped unreadable students",
			zap.String("class_id", roster.ClassID), zap.Int("skipped", skipped))
	}
	return &report, nil
}

// AggregateClass builds the classroom rollup from loaded student records. TotalStudents counts the
// roster; averages use only active (or quiz-scored, for accuracy) students.
func AggregateClass(roster models.ClassRoster, records []models.UserRecord, period models.AnalyticsPeriod, now time.Time) models.ClassReport {
	window := ResolveAnalyticsPeriod(period, now)
	days := trailingDays(now, period.Days())
	daily := make(map[string]int, len(days))

	stats := make([]models.StudentPeriodStats, 0, len(records))
	summaries := make([]models.StudentSummary, 0, len(records))
	var (
		active            int
		wordsSum, timeSum int
		accuracySum       float64
		accuracyCount     int
	)

	for _, record := range records {
		var words, minutes int
		isActive := false
		for _, day := range record.ActivityDays {
			if !window.Contains(day.Date) {
				continue
			}
			isActive = true
			words += day.WordsLearned
			minutes += day.TimeSpentMinutes
			daily[models.DayKey(day.Date)] += day.WordsLearned
		}
		mean, scored := quizMean(record.CourseProgress)

		stat := models.StudentPeriodStats{
			StudentID:    record.UserID,
			DisplayName:  record.DisplayName,
			WordsLearned: words,
			TimeSpent:    minutes,
			Accuracy:     meanRounded(mean, 1),
			QuizScored:   scored > 0,
			Active:       isActive,
		}
		stats = append(stats, stat)

		if scored > 0 {
			accuracySum += mean
			accuracyCount++
		}
		if !isActive {
			continue
		}
		active++
		wordsSum += words
		timeSum += minutes
		summaries = append(summaries, models.StudentSummary{
			StudentID:     record.UserID,
			DisplayName:   record.DisplayName,
			PhotoURL:      record.PhotoURL,
			WordsLearned:  words,
			TimeSpent:     minutes,
			Accuracy:      stat.Accuracy,
			CurrentStreak: record.CurrentStreak,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].WordsLearned > summaries[j].WordsLearned
	})
	if len(summaries) > topPerformerLimit {
		summaries = summaries[:topPerformerLimit]
	}

	alerts := DetectAlerts(records, now)
	if len(alerts) > needsAttentionLimit {
		alerts = alerts[:needsAttentionLimit]
	}

	trend := make([]models.TrendPoint, len(days))
	for i, key := range days {
		trend[i] = models.TrendPoint{Date: key, Value: daily[key]}
	}

	total := len(roster.StudentIDs)
	completion := 0
	if total > 0 {
		completion = meanRounded(float64(active*100), total)
	}

	return models.ClassReport{
		Analytics: models.ClassAnalytics{
			ClassID:         roster.ClassID,
			Period:          period,
			TotalStudents:   total,
			ActiveStudents:  active,
			AvgWordsLearned: meanRounded(float64(wordsSum), active),
			AvgAccuracy:     meanRounded(accuracySum, accuracyCount),
			AvgTimeSpent:    meanRounded(float64(timeSum), active),
			CompletionRate:  completion,
			TopPerformers:   summaries,
			NeedsAttention:  alerts,
			TrendData:       trend,
		},
		Students:    stats,
		GeneratedAt: now,
	}
}
