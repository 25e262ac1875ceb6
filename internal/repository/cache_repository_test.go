package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "leaderboard:v1:wordsLearned:weekly:global", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Nil(t, dest)

	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "leaderboard:v1:*"))
	assert.NoError(t, repo.Close())
}
