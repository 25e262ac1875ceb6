package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

const userColumns = "id, display_name, photo_url, current_streak, longest_streak, last_active_at"

// UserRecordRepository reads learner records together with their activity days and course progress.
type UserRecordRepository struct {
	db *sqlx.DB
}

// NewUserRecordRepository constructs a UserRecordRepository.
func NewUserRecordRepository(db *sqlx.DB) *UserRecordRepository {
	return &UserRecordRepository{db: db}
}

type activityRow struct {
	UserID string `db:"user_id"`
	models.ActivityDay
}

type courseProgressRow struct {
	UserID        string        `db:"user_id"`
	CourseID      string        `db:"course_id"`
	DayNumber     int           `db:"day_number"`
	Completed     bool          `db:"completed"`
	QuizCompleted bool          `db:"quiz_completed"`
	QuizScore     sql.NullInt32 `db:"quiz_score"`
}

// GetUserRecord fetches a single learner record. A missing user yields ErrNotFound.
func (r *UserRecordRepository) GetUserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	var record models.UserRecord
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	if err := r.db.GetContext(ctx, &record, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user record not found")
		}
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	records := []models.UserRecord{record}
	if err := r.attachHistory(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// ListUserRecords scans learner records matching the filter ordered by id.
func (r *UserRecordRepository) ListUserRecords(ctx context.Context, filter models.UserRecordFilter) ([]models.UserRecord, error) {
	var builder strings.Builder
	builder.WriteString("SELECT " + userColumns + " FROM users WHERE 1=1")
	var args []interface{}
	if len(filter.UserIDs) > 0 {
		args = append(args, pq.Array(filter.UserIDs))
		builder.WriteString(fmt.Sprintf(" AND id = ANY($%d)", len(args)))
	}
	if filter.ActiveFrom != nil {
		args = append(args, *filter.ActiveFrom)
		builder.WriteString(fmt.Sprintf(" AND last_active_at >= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY id")

	var records []models.UserRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}
	if err := r.attachHistory(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *UserRecordRepository) attachHistory(ctx context.Context, records []models.UserRecord) error {
	ids := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		ids[i] = records[i].UserID
		index[records[i].UserID] = i
		records[i].ActivityDays = []models.ActivityDay{}
		records[i].CourseProgress = models.CourseProgress{}
	}

	const activityQuery = `SELECT user_id, day, words_learned, correct_answers, total_answers, time_spent_minutes
        FROM activity_days WHERE user_id = ANY($1) ORDER BY user_id, day`
	var days []activityRow
	if err := r.db.SelectContext(ctx, &days, activityQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list activity days: %w", err)
	}
	for _, day := range days {
		if i, ok := index[day.UserID]; ok {
			records[i].ActivityDays = append(records[i].ActivityDays, day.ActivityDay)
		}
	}

	const progressQuery = `SELECT user_id, course_id, day_number, completed, quiz_completed, quiz_score
        FROM course_day_progress WHERE user_id = ANY($1) ORDER BY user_id, course_id, day_number`
	var progress []courseProgressRow
	if err := r.db.SelectContext(ctx, &progress, progressQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list course progress: %w", err)
	}
	for _, row := range progress {
		i, ok := index[row.UserID]
		if !ok {
			continue
		}
		entry := models.CourseDayProgress{Completed: row.Completed, QuizCompleted: row.QuizCompleted}
		if row.QuizScore.Valid {
			score := int(row.QuizScore.Int32)
			entry.QuizScore = &score
		}
		records[i].CourseProgress.Set(row.CourseID, row.DayNumber, entry)
	}
	return nil
}
