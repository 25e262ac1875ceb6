package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

// Alert thresholds.
const (
	inactivityDays        = 7
	streakLossMinimum     = 7
	lowPerformanceQuizzes = 3
	lowPerformanceScore   = 60
)

// alertRule inspects a record and returns an alert when the rule matches.
type alertRule func(record models.UserRecord, now time.Time) *models.StudentAlert

// alertRules run in priority order; the first match wins.
var alertRules = []alertRule{inactiveRule, streakLostRule, lowPerformanceRule}

// EvaluateAlert applies the alert rules to one student and returns at most one alert.
func EvaluateAlert(record models.UserRecord, now time.Time) *models.StudentAlert {
	for _, rule := range alertRules {
		if alert := rule(record, now); alert != nil {
			alert.UserID = record.UserID
			alert.DisplayName = record.DisplayName
			return alert
		}
	}
	return nil
}

// DetectAlerts evaluates every record in order and returns the produced alerts.
func DetectAlerts(records []models.UserRecord, now time.Time) []models.StudentAlert {
	alerts := []models.StudentAlert{}
	for _, record := range records {
		if alert := EvaluateAlert(record, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

func inactiveRule(record models.UserRecord, now time.Time) *models.StudentAlert {
	if record.LastActiveDate.IsZero() {
		return &models.StudentAlert{
			AlertType: models.AlertInactive,
			Severity:  models.SeverityHigh,
			Message:   "No recorded study activity yet",
		}
	}
	days := int(now.Sub(record.LastActiveDate).Hours() / 24)
	if days <= inactivityDays {
		return nil
	}
	return &models.StudentAlert{
		AlertType: models.AlertInactive,
		Severity:  models.SeverityHigh,
		Message:   fmt.Sprintf("Inactive for %d days", days),
	}
}

func streakLostRule(record models.UserRecord, _ time.Time) *models.StudentAlert {
	if record.LongestStreak <= streakLossMinimum || record.CurrentStreak != 0 {
		return nil
	}
	return &models.StudentAlert{
		AlertType: models.AlertStreakLost,
		Severity:  models.SeverityMedium,
		Message:   fmt.Sprintf("Lost a %d-day streak", record.LongestStreak),
	}
}

func lowPerformanceRule(record models.UserRecord, _ time.Time) *models.StudentAlert {
	mean, count := quizMean(record.CourseProgress)
	if count < lowPerformanceQuizzes || mean >= lowPerformanceScore {
		return nil
	}
	return &models.StudentAlert{
		AlertType: models.AlertLowPerformance,
		Severity:  models.SeverityMedium,
		Message:   fmt.Sprintf("Average quiz score is %d%%", meanRounded(mean, 1)),
	}
}

// AlertService detects students needing attention.
type AlertService struct {
	loader *RecordLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewAlertService constructs an AlertService.
func NewAlertService(loader *RecordLoader, logger *zap.Logger, now func() time.Time) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &AlertService{loader: loader, logger: logger, now: now}
}

// Detect loads each student and evaluates the alert rules. Unreadable students are skipped.
func (s *AlertService) Detect(ctx context.Context, studentIDs []string) ([]models.StudentAlert, error) {
	records, err := s.loader.LoadMany(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	alerts := DetectAlerts(records, s.now())
	s.logger.Debug("attention alerts evaluated", zap.Int("students", len(records)), zap.Int("alerts", len(alerts)))
	return alerts, nil
}
