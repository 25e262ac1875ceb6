package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

// RosterRepository resolves class rosters.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// GetClassRoster returns the class with its enrolled student ids in enrollment order.
func (r *RosterRepository) GetClassRoster(ctx context.Context, classID string) (*models.ClassRoster, error) {
	var class struct {
		ID        string `db:"id"`
		TeacherID string `db:"teacher_id"`
	}
	if err := r.db.GetContext(ctx, &class, "SELECT id, teacher_id FROM classes WHERE id = $1", classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, fmt.Errorf("get class %s: %w", classID, err)
	}

	studentIDs := []string{}
	const query = "SELECT student_id FROM class_students WHERE class_id = $1 ORDER BY joined_at, student_id"
	if err := r.db.SelectContext(ctx, &studentIDs, query, classID); err != nil {
		return nil, fmt.Errorf("list class students %s: %w", classID, err)
	}

	return &models.ClassRoster{ClassID: class.ID, TeacherID: class.TeacherID, StudentIDs: studentIDs}, nil
}
