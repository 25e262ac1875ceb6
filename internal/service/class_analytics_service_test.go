package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

func classFixture() (models.ClassRoster, *fakeRecordRepo) {
	s1 := models.UserRecord{
		UserID:         "s1",
		DisplayName:    "Ayu",
		CurrentStreak:  3,
		LastActiveDate: wednesday,
		ActivityDays: []models.ActivityDay{
			{Date: daysAgo(3), WordsLearned: 10, TimeSpentMinutes: 10},
			{Date: daysAgo(0), WordsLearned: 30, TimeSpentMinutes: 20},
		},
		CourseProgress: scoredProgress(80, 90),
	}
	s2 := models.UserRecord{
		UserID:         "s2",
		DisplayName:    "Budi",
		LastActiveDate: daysAgo(6),
		ActivityDays:   []models.ActivityDay{{Date: daysAgo(6), WordsLearned: 20, TimeSpentMinutes: 5}},
	}
	s3 := models.UserRecord{
		UserID:         "s3",
		DisplayName:    "Citra",
		LastActiveDate: wednesday.AddDate(0, 0, -10),
		ActivityDays:   []models.ActivityDay{{Date: daysAgo(10), WordsLearned: 100, TimeSpentMinutes: 90}},
		CourseProgress: scoredProgress(40, 50, 60),
	}
	roster := models.ClassRoster{ClassID: "class-1", TeacherID: "t1", StudentIDs: []string{"s1", "s2", "s3", "ghost"}}
	return roster, newFakeRecordRepo(s1, s2, s3)
}

func newTestClassService(repo *fakeRecordRepo, rosters ...models.ClassRoster) *ClassAnalyticsService {
	byID := make(map[string]models.ClassRoster, len(rosters))
	for _, roster := range rosters {
		byID[roster.ClassID] = roster
	}
	return NewClassAnalyticsService(ClassAnalyticsServiceParams{
		Rosters: &fakeRosters{rosters: byID},
		Loader:  NewRecordLoader(repo, nil, nil, RecordLoaderConfig{Workers: 3}),
		Now:     fixedNow,
	})
}

func TestClassAnalyticsAggregatesWeek(t *testing.T) {
	roster, repo := classFixture()
	svc := newTestClassService(repo, roster)

	analytics, err := svc.ClassAnalytics(context.Background(), "class-1", models.AnalyticsPeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, "class-1", analytics.ClassID)
	assert.Equal(t, 4, analytics.TotalStudents)
	assert.Equal(t, 2, analytics.ActiveStudents)
	assert.Equal(t, 30, analytics.AvgWordsLearned)
	assert.Equal(t, 18, analytics.AvgTimeSpent)
	assert.Equal(t, 68, analytics.AvgAccuracy)
	assert.Equal(t, 50, analytics.CompletionRate)

	require.Len(t, analytics.TopPerformers, 2)
	assert.Equal(t, "s1", analytics.TopPerformers[0].StudentID)
	assert.Equal(t, 40, analytics.TopPerformers[0].WordsLearned)
	assert.Equal(t, 85, analytics.TopPerformers[0].Accuracy)
	assert.Equal(t, "s2", analytics.TopPerformers[1].StudentID)

	require.Len(t, analytics.NeedsAttention, 1)
	assert.Equal(t, "s3", analytics.NeedsAttention[0].UserID)
	assert.Equal(t, models.AlertInactive, analytics.NeedsAttention[0].AlertType)

	require.Len(t, analytics.TrendData, 7)
	assert.Equal(t, models.TrendPoint{Date: "2024-05-09", Value: 20}, analytics.TrendData[0])
	assert.Equal(t, models.TrendPoint{Date: "2024-05-12", Value: 10}, analytics.TrendData[3])
	assert.Equal(t, models.TrendPoint{Date: "2024-05-15", Value: 30}, analytics.TrendData[6])
	assert.Equal(t, 0, analytics.TrendData[1].Value)
}

func TestClassAnalyticsMonthIncludesOlderActivity(t *testing.T) {
	roster, repo := classFixture()
	svc := newTestClassService(repo, roster)

	analytics, err := svc.ClassAnalytics(context.Background(), "class-1", models.AnalyticsPeriodMonth)
	require.NoError(t, err)

	assert.Equal(t, 3, analytics.ActiveStudents)
	assert.Equal(t, 75, analytics.CompletionRate)
	assert.Len(t, analytics.TrendData, 30)
	assert.Equal(t, "s3", analytics.TopPerformers[0].StudentID)
}

func TestClassAnalyticsEmptyRoster(t *testing.T) {
	svc := newTestClassService(newFakeRecordRepo(), models.ClassRoster{ClassID: "empty"})

	analytics, err := svc.ClassAnalytics(context.Background(), "empty", models.AnalyticsPeriodWeek)
	require.NoError(t, err)

	assert.Zero(t, analytics.TotalStudents)
	assert.Zero(t, analytics.ActiveStudents)
	assert.Zero(t, analytics.AvgWordsLearned)
	assert.Zero(t, analytics.AvgAccuracy)
	assert.Zero(t, analytics.AvgTimeSpent)
	assert.Zero(t, analytics.CompletionRate)
	assert.NotNil(t, analytics.TopPerformers)
	assert.Empty(t, analytics.TopPerformers)
	assert.NotNil(t, analytics.NeedsAttention)
	assert.Empty(t, analytics.NeedsAttention)
	require.Len(t, analytics.TrendData, 7)
	for _, point := range analytics.TrendData {
		assert.Zero(t, point.Value)
	}
}

func TestClassAnalyticsUnknownClass(t *testing.T) {
	svc := newTestClassService(newFakeRecordRepo())

	_, err := svc.ClassAnalytics(context.Background(), "nope", models.AnalyticsPeriodWeek)

	assert.True(t, appErrors.IsNotFound(err))
}

func TestAggregateClassCapsListsAndKeepsTieOrder(t *testing.T) {
	roster := models.ClassRoster{ClassID: "big"}
	records := make([]models.UserRecord, 0, 8)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("s%d", i)
		roster.StudentIDs = append(roster.StudentIDs, id)
		record := wordsToday(id, 10)
		record.LongestStreak = 10
		records = append(records, record)
	}

	report := AggregateClass(roster, records, models.AnalyticsPeriodWeek, wednesday)

	require.Len(t, report.Analytics.TopPerformers, 5)
	for i, summary := range report.Analytics.TopPerformers {
		assert.Equal(t, fmt.Sprintf("s%d", i), summary.StudentID)
	}
	assert.Len(t, report.Analytics.NeedsAttention, 5)
	assert.Len(t, report.Students, 8)
}

func TestAggregateClassIsDeterministic(t *testing.T) {
	roster, repo := classFixture()
	records, err := NewRecordLoader(repo, nil, nil, RecordLoaderConfig{}).LoadMany(context.Background(), roster.StudentIDs)
	require.NoError(t, err)

	first := AggregateClass(roster, records, models.AnalyticsPeriodMonth, wednesday)
	second := AggregateClass(roster, records, models.AnalyticsPeriodMonth, wednesday)

	assert.Equal(t, first, second)
}

func TestClassReportCarriesStudentBreakdown(t *testing.T) {
	roster, repo := classFixture()
	svc := newTestClassService(repo, roster)

	report, err := svc.ClassReport(context.Background(), "class-1", models.AnalyticsPeriodWeek)
	require.NoError(t, err)

	require.Len(t, report.Students, 3)
	assert.Equal(t, models.StudentPeriodStats{
		StudentID:    "s3",
		DisplayName:  "Citra",
		WordsLearned: 0,
		TimeSpent:    0,
		Accuracy:     50,
		QuizScored:   true,
		Active:       false,
	}, report.Students[2])
	assert.Equal(t, wednesday, report.GeneratedAt)
}
