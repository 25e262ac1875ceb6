package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

var cliNow = time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)

type memoryStore struct {
	records map[string]models.UserRecord
	rosters map[string]models.ClassRoster
}

func (m memoryStore) GetUserRecord(_ context.Context, id string) (*models.UserRecord, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user record not found")
	}
	return &record, nil
}

func (m memoryStore) ListUserRecords(context.Context, models.UserRecordFilter) ([]models.UserRecord, error) {
	out := make([]models.UserRecord, 0, len(m.records))
	for _, id := range []string{"a", "b"} {
		out = append(out, m.records[id])
	}
	return out, nil
}

func (m memoryStore) FriendIDs(context.Context, string) ([]string, error) {
	return []string{"b"}, nil
}

func (m memoryStore) GetClassRoster(_ context.Context, id string) (*models.ClassRoster, error) {
	roster, ok := m.rosters[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return &roster, nil
}

func useMemoryEngine(t *testing.T) {
	t.Helper()
	day := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	store := memoryStore{
		records: map[string]models.UserRecord{
			"a": {UserID: "a", LastActiveDate: cliNow, ActivityDays: []models.ActivityDay{{Date: day, WordsLearned: 10}}},
			"b": {UserID: "b", LastActiveDate: cliNow, LongestStreak: 9, ActivityDays: []models.ActivityDay{{Date: day, WordsLearned: 30}}},
		},
		rosters: map[string]models.ClassRoster{"c1": {ClassID: "c1", StudentIDs: []string{"a", "b"}}},
	}
	original := openEngine
	openEngine = func(context.Context) (*engine, func(), error) {
		return newEngine(engineDeps{
			Records: store,
			Friends: store,
			Rosters: store,
			Now:     func() time.Time { return cliNow },
		}), func() {}, nil
	}
	t.Cleanup(func() { openEngine = original })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLeaderboardCommand(t *testing.T) {
	useMemoryEngine(t)

	out, err := run(t, "leaderboard", "--metric", "wordsLearned", "--period", "daily", "--scope", "global", "--limit", "1", "--user", "a")
	require.NoError(t, err)

	var board models.Leaderboard
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "b", board.Entries[0].UserID)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.True(t, board.Entries[1].IsRequestingUser)
}

func TestLeaderboardCommandRejectsUnknownMetric(t *testing.T) {
	useMemoryEngine(t)

	_, err := run(t, "leaderboard", "--metric", "xp", "--period", "daily", "--scope", "global")

	assert.ErrorContains(t, err, "unknown metric")
}

func TestPositionCommand(t *testing.T) {
	useMemoryEngine(t)

	out, err := run(t, "position", "a", "--metric", "wordsLearned", "--period", "weekly", "--scope", "friends")
	require.NoError(t, err)

	var position models.UserLeaderboardPosition
	require.NoError(t, json.Unmarshal([]byte(out), &position))
	assert.Equal(t, 2, position.Rank)
	assert.Equal(t, 50, position.Percentile)
}

func TestClassAnalyticsCommandAlerts(t *testing.T) {
	useMemoryEngine(t)

	out, err := run(t, "class-analytics", "c1", "--period", "week", "--alerts")
	require.NoError(t, err)

	var alerts []models.StudentAlert
	require.NoError(t, json.Unmarshal([]byte(out), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertStreakLost, alerts[0].AlertType)
}

func TestStudentCommandNotFound(t *testing.T) {
	useMemoryEngine(t)

	_, err := run(t, "student", "ghost")

	assert.True(t, appErrors.IsNotFound(err))
}

func TestCacheFlushCommandWithoutCache(t *testing.T) {
	useMemoryEngine(t)

	out, err := run(t, "cache-flush")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"flushed"}`, out)
}
