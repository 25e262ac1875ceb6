package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var (
	userCols     = []string{"id", "display_name", "photo_url", "current_streak", "longest_streak", "last_active_at"}
	activityCols = []string{"user_id", "day", "words_learned", "correct_answers", "total_answers", "time_spent_minutes"}
	progressCols = []string{"user_id", "course_id", "day_number", "completed", "quiz_completed", "quiz_score"}
)

func TestUserRecordRepositoryGetUserRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRecordRepository(db)

	lastActive := time.Date(2024, 5, 8, 18, 0, 0, 0, time.UTC)
	day := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, display_name, photo_url, current_streak, longest_streak, last_active_at FROM users WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "Ana", nil, 3, 9, lastActive))
	mock.ExpectQuery("FROM activity_days WHERE user_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(activityCols).AddRow("u-1", day, 12, 8, 10, 25))
	mock.ExpectQuery("FROM course_day_progress WHERE user_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(progressCols).
			AddRow("u-1", "c-1", 1, true, true, 80).
			AddRow("u-1", "c-1", 2, true, false, nil))

	record, err := repo.GetUserRecord(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", record.DisplayName)
	assert.Nil(t, record.PhotoURL)
	assert.Equal(t, 9, record.LongestStreak)
	require.Len(t, record.ActivityDays, 1)
	assert.Equal(t, 12, record.ActivityDays[0].WordsLearned)
	assert.Equal(t, 25, record.ActivityDays[0].TimeSpentMinutes)
	require.Contains(t, record.CourseProgress, "c-1")
	require.NotNil(t, record.CourseProgress["c-1"][1].QuizScore)
	assert.Equal(t, 80, *record.CourseProgress["c-1"][1].QuizScore)
	assert.Nil(t, record.CourseProgress["c-1"][2].QuizScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRecordRepositoryGetUserRecordNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRecordRepository(db)

	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetUserRecord(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRecordRepositoryListUserRecordsFiltersAndGroups(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRecordRepository(db)

	now := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE 1=1 AND id = ANY($1) ORDER BY id")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "Ana", "https://img/a.png", 1, 1, now).
			AddRow("u-2", "Budi", nil, 0, 0, now))
	mock.ExpectQuery("FROM activity_days").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(activityCols).
			AddRow("u-1", now, 5, 1, 2, 3).
			AddRow("u-2", now, 7, 0, 0, 4).
			AddRow("u-2", now.AddDate(0, 0, 1), 1, 0, 0, 1))
	mock.ExpectQuery("FROM course_day_progress").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(progressCols))

	records, err := repo.ListUserRecords(context.Background(), models.UserRecordFilter{UserIDs: []string{"u-1", "u-2"}})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].PhotoURL)
	assert.Equal(t, "https://img/a.png", *records[0].PhotoURL)
	assert.Len(t, records[0].ActivityDays, 1)
	assert.Len(t, records[1].ActivityDays, 2)
	assert.Empty(t, records[1].CourseProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRecordRepositoryListUserRecordsEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRecordRepository(db)

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE 1=1 AND last_active_at >= $1 ORDER BY id")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(userCols))

	records, err := repo.ListUserRecords(context.Background(), models.UserRecordFilter{ActiveFrom: &since})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
