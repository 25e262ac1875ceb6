package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

// LeaderboardQuery captures leaderboard filters from the query string.
type LeaderboardQuery struct {
	Metric string `form:"metric" validate:"omitempty,oneof=wordsLearned currentStreak accuracy timeSpent"`
	Period string `form:"period" validate:"omitempty,oneof=daily weekly monthly allTime"`
	Scope  string `form:"scope" validate:"omitempty,oneof=global friends"`
	Limit  int    `form:"limit" validate:"gte=0"`
}

// Filter converts the query to an engine filter, applying defaults for omitted fields.
func (q LeaderboardQuery) Filter(requesterID string) models.LeaderboardFilter {
	filter := models.LeaderboardFilter{
		Metric:           models.Metric(q.Metric),
		Period:           models.Period(q.Period),
		Scope:            models.Scope(q.Scope),
		Limit:            q.Limit,
		RequestingUserID: requesterID,
	}
	if filter.Metric == "" {
		filter.Metric = models.MetricWordsLearned
	}
	if filter.Period == "" {
		filter.Period = models.PeriodWeekly
	}
	if filter.Scope == "" {
		filter.Scope = models.ScopeGlobal
	}
	return filter
}

// ClassAnalyticsQuery selects the analytics window.
type ClassAnalyticsQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=week month"`
}

// AnalyticsPeriod returns the requested period, defaulting to a week.
func (q ClassAnalyticsQuery) AnalyticsPeriod() models.AnalyticsPeriod {
	if q.Period == "" {
		return models.AnalyticsPeriodWeek
	}
	return models.AnalyticsPeriod(q.Period)
}

// ClassExportQuery selects the analytics window and document format.
type ClassExportQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=week month"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// AnalyticsPeriod returns the requested period, defaulting to a week.
func (q ClassExportQuery) AnalyticsPeriod() models.AnalyticsPeriod {
	return ClassAnalyticsQuery{Period: q.Period}.AnalyticsPeriod()
}

// ExportFormat returns the requested format, defaulting to csv.
func (q ClassExportQuery) ExportFormat() string {
	if q.Format == "" {
		return "csv"
	}
	return q.Format
}

// ValidationMessage renders validator failures as a short client-facing message.
func ValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid query parameters"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(parts, "; ")
}
