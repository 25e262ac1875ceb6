package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

func TestRosterRepositoryGetClassRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("SELECT id, teacher_id FROM classes WHERE id = \\$1").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id"}).AddRow("class-1", "teacher-1"))
	mock.ExpectQuery("SELECT student_id FROM class_students WHERE class_id = \\$1 ORDER BY joined_at, student_id").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow("s-2").AddRow("s-1"))

	roster, err := repo.GetClassRoster(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", roster.TeacherID)
	assert.Equal(t, []string{"s-2", "s-1"}, roster.StudentIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryGetClassRosterEmptyClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("FROM classes").
		WithArgs("class-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id"}).AddRow("class-2", "teacher-1"))
	mock.ExpectQuery("FROM class_students").
		WithArgs("class-2").
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}))

	roster, err := repo.GetClassRoster(context.Background(), "class-2")
	require.NoError(t, err)
	assert.NotNil(t, roster.StudentIDs)
	assert.Empty(t, roster.StudentIDs)
}

func TestRosterRepositoryGetClassRosterNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("FROM classes").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id"}))

	_, err := repo.GetClassRoster(context.Background(), "missing")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestFriendRepositoryFriendIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFriendRepository(db)

	mock.ExpectQuery("SELECT friend_id FROM friendships WHERE user_id = \\$1").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"friend_id"}).AddRow("u-2").AddRow("u-3"))

	ids, err := repo.FriendIDs(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2", "u-3"}, ids)

	mock.ExpectQuery("FROM friendships").
		WithArgs("u-9").
		WillReturnError(assert.AnError)
	_, err = repo.FriendIDs(context.Background(), "u-9")
	assert.ErrorIs(t, err, assert.AnError)
}
