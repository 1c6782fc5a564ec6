package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var sf singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadWithSingleflight serves key from cache or coalesces concurrent loads into one
// loader call and caches the result.
func loadWithSingleflight[T any](cache ports.Cache, ctx context.Context, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	var zero T
	if v, ok := cacheGet[T](cache, ctx, key); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[T](cache, ctx, key); ok {
			return *v, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetSilently(cache, ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	return v, nil
}

// CachingStageRepository decorates stage reads with cache-aside. Stage rows are
// managed outside this service, so entries simply expire after ttl.
type CachingStageRepository struct {
	inner ports.StageRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingStageRepository(inner ports.StageRepository, cache ports.Cache, ttl time.Duration) ports.StageRepository {
	return &CachingStageRepository{inner: inner, cache: cache, ttl: ttl}
}

func stageKey(id uuid.UUID) string         { return "stage:id:" + id.String() }
func teamStagesKey(teamID uuid.UUID) string { return "stages:team:" + teamID.String() }

func (c *CachingStageRepository) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	return loadWithSingleflight(c.cache, ctx, stageKey(id), c.ttl, func() (*card.Stage, error) {
		return c.inner.GetStage(ctx, id)
	})
}

func (c *CachingStageRepository) ListStages(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error) {
	return loadWithSingleflight(c.cache, ctx, teamStagesKey(teamID), c.ttl, func() ([]*card.Stage, error) {
		stages, err := c.inner.ListStages(ctx, teamID)
		if err != nil {
			return nil, err
		}
		for _, s := range stages {
			cacheSetSilently(c.cache, ctx, stageKey(s.ID), s, c.ttl)
		}
		return stages, nil
	})
}
