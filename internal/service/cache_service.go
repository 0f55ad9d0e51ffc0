package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Cached entity feeds.
const (
	CacheEntityEvents        = "events"
	CacheEntityNotifications = "notifications"
	CacheEntityMagazines     = "magazines"
	CacheEntityGallery       = "gallery"
)

// CacheService orchestrates cache operations and related metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// ListKey names the cache entry for a feed page under an entity generation.
func ListKey(entity string, generation int64, limit int) string {
	return fmt.Sprintf("%s:list:g%d:%d", entity, generation, limit)
}

// GenerationKey names the counter bumped whenever an entity's feed changes.
func GenerationKey(entity string) string {
	return entity + ":gen"
}

// generation returns the current feed generation of entity. ok is false when the cache is
// disabled or the counter cannot be read, in which case callers should bypass the cache.
func (s *CacheService) generation(ctx context.Context, entity string) (gen int64, ok bool) {
	if !s.Enabled() {
		return 0, false
	}
	gen, err := s.repo.Counter(ctx, GenerationKey(entity))
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.String("entity", entity), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateEntity moves an entity to a new feed generation, then drops the pages of older
// generations. A reader that loaded before the write stores its page under the old generation,
// where no later reader looks.
func (s *CacheService) InvalidateEntity(ctx context.Context, entity string) {
	if !s.Enabled() {
		return
	}
	if _, err := s.repo.Incr(ctx, GenerationKey(entity)); err != nil {
		s.logger.Warn("cache generation bump failed", zap.String("entity", entity), zap.Error(err))
	}
	_ = s.Invalidate(ctx, entity+":list:*")
}

// cachedList serves a feed page from cache, loading and storing it on a miss. The generation is
// read before loading so a page built from pre-write rows is never stored under the post-write
// key. Cache failures fall through to the loader.
func cachedList[T any](ctx context.Context, cache *CacheService, entity string, limit int, load func() ([]T, error)) ([]T, error) {
	gen, ok := cache.generation(ctx, entity)
	if !ok {
		return load()
	}
	key := ListKey(entity, gen, limit)
	var items []T
	if hit, _ := cache.Get(ctx, key, &items); hit {
		return items, nil
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	_ = cache.Set(ctx, key, items, 0)
	return items, nil
}
