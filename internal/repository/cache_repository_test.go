package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, "portal:"), mr
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	var missing []models.Event
	assert.ErrorIs(t, repo.Get(ctx, "events:list:10", &missing), appErrors.ErrCacheMiss)

	events := []models.Event{{ID: "e1", Title: "IoT Workshop", Type: models.EventTypeWorkshop, IsActive: true}}
	require.NoError(t, repo.Set(ctx, "events:list:10", events, time.Minute))
	assert.True(t, mr.Exists("portal:events:list:10"))

	var cached []models.Event
	require.NoError(t, repo.Get(ctx, "events:list:10", &cached))
	assert.Equal(t, events[0].Title, cached[0].Title)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "events:list:10", &cached), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "events:list:10", []string{"a"}, time.Minute))
	require.NoError(t, repo.Set(ctx, "events:list:50", []string{"b"}, time.Minute))
	require.NoError(t, repo.Set(ctx, "gallery:list:20", []string{"c"}, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "events:*"))
	assert.False(t, mr.Exists("portal:events:list:10"))
	assert.False(t, mr.Exists("portal:events:list:50"))
	assert.True(t, mr.Exists("portal:gallery:list:20"))
}

func TestCacheRepositoryCounter(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	n, err := repo.Counter(ctx, "events:gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Incr(ctx, "events:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.Incr(ctx, "events:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Counter(ctx, "events:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	got, err := mr.Get("portal:events:gen")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	require.NoError(t, repo.DeleteByPattern(ctx, "events:list:*"))
	assert.True(t, mr.Exists("portal:events:gen"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "")
	var dest []string
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", dest, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
	n, err := repo.Incr(context.Background(), "k")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
