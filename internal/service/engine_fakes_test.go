package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

// wednesday is a fixed clock used across engine tests.
var wednesday = time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return wednesday }

func daysAgo(n int) time.Time {
	return startOfDay(wednesday).AddDate(0, 0, -n)
}

func intPtr(v int) *int { return &v }

func wordsToday(id string, words int) models.UserRecord {
	return models.UserRecord{
		UserID:         id,
		DisplayName:    "User " + id,
		LastActiveDate: wednesday,
		ActivityDays:   []models.ActivityDay{{Date: daysAgo(0), WordsLearned: words}},
	}
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]models.UserRecord
	errs    map[string]error
	block   map[string]bool
	listErr error
	gets    []string
	lists   int
}

func newFakeRecordRepo(records ...models.UserRecord) *fakeRecordRepo {
	repo := &fakeRecordRepo{
		records: make(map[string]models.UserRecord),
		errs:    make(map[string]error),
		block:   make(map[string]bool),
	}
	for _, record := range records {
		repo.records[record.UserID] = record
	}
	return repo
}

func (f *fakeRecordRepo) GetUserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	f.mu.Lock()
	f.gets = append(f.gets, userID)
	blocked := f.block[userID]
	err := f.errs[userID]
	record, ok := f.records[userID]
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user record not found")
	}
	return &record, nil
}

func (f *fakeRecordRepo) ListUserRecords(_ context.Context, _ models.UserRecordFilter) ([]models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.UserRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.records[id])
	}
	return out, nil
}

type fakeFriends struct {
	friends map[string][]string
	err     error
}

func (f *fakeFriends) FriendIDs(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.friends[userID], nil
}

type fakeRosters struct {
	rosters map[string]models.ClassRoster
}

func (f *fakeRosters) GetClassRoster(_ context.Context, classID string) (*models.ClassRoster, error) {
	roster, ok := f.rosters[classID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return &roster, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries  map[string][]byte
	sets     int
	patterns []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.patterns = append(m.patterns, pattern)
	return nil
}
