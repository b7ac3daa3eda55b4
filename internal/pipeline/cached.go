package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/cache"
)

const cacheName = "stages"

// CacheObserver receives hit/miss notifications.
type CacheObserver interface {
	IncrCacheHit(cache string)
	IncrCacheMiss(cache string)
}

// CachedDirectory is a read-through TTL cache in front of another Directory.
// Not-found results are not cached.
type CachedDirectory struct {
	next      Directory
	observer  CacheObserver
	stages    *cache.TTL[*Stage]
	lists     *cache.TTL[[]*Stage]
	pipelines *cache.TTL[*Pipeline]
}

func NewCachedDirectory(next Directory, ttl time.Duration, observer CacheObserver) *CachedDirectory {
	return &CachedDirectory{
		next:      next,
		observer:  observer,
		stages:    cache.New[*Stage](ttl),
		lists:     cache.New[[]*Stage](ttl),
		pipelines: cache.New[*Pipeline](ttl),
	}
}

func (c *CachedDirectory) Close() {
	c.stages.Close()
	c.lists.Close()
	c.pipelines.Close()
}

func (c *CachedDirectory) GetPipeline(ctx context.Context, id uuid.UUID) (*Pipeline, error) {
	return readThrough(c, c.pipelines, id, func() (*Pipeline, error) {
		return c.next.GetPipeline(ctx, id)
	})
}

func (c *CachedDirectory) GetStage(ctx context.Context, id uuid.UUID) (*Stage, error) {
	return readThrough(c, c.stages, id, func() (*Stage, error) {
		return c.next.GetStage(ctx, id)
	})
}

func (c *CachedDirectory) ListStages(ctx context.Context, pipelineID uuid.UUID) ([]*Stage, error) {
	return readThrough(c, c.lists, pipelineID, func() ([]*Stage, error) {
		return c.next.ListStages(ctx, pipelineID)
	})
}

func (c *CachedDirectory) FirstOpenStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return c.ofKind(ctx, pipelineID, KindOpen)
}

func (c *CachedDirectory) WonStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return c.ofKind(ctx, pipelineID, KindWon)
}

func (c *CachedDirectory) LostStage(ctx context.Context, pipelineID uuid.UUID) (*Stage, error) {
	return c.ofKind(ctx, pipelineID, KindLost)
}

func (c *CachedDirectory) ofKind(ctx context.Context, pipelineID uuid.UUID, kind Kind) (*Stage, error) {
	stages, err := c.ListStages(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	s, ok := FirstOfKind(stages, kind)
	if !ok {
		return nil, ErrStageNotFound
	}

	return s, nil
}

func readThrough[T any](c *CachedDirectory, store *cache.TTL[T], id uuid.UUID, load func() (T, error)) (T, error) {
	key := id.String()

	if v, ok := store.Get(key); ok {
		c.hit()
		return v, nil
	}

	c.miss()

	v, err := load()
	if err != nil {
		return v, err
	}

	store.Set(key, v)

	return v, nil
}

func (c *CachedDirectory) hit() {
	if c.observer != nil {
		c.observer.IncrCacheHit(cacheName)
	}
}

func (c *CachedDirectory) miss() {
	if c.observer != nil {
		c.observer.IncrCacheMiss(cacheName)
	}
}
