package validation

import (
	"context"
	"sync"

	"github.com/enzymatix/mechvalid/internal/domain/reaction"
)

// Cache stores computed rankings by composition key so that reactions with
// identical substrate/product compositions are scored once.  Implementations
// must be safe for concurrent use.  A Get error is advisory: the validator
// logs it and recomputes, it never fails a reaction over a cache outage.
type Cache interface {
	Get(ctx context.Context, key reaction.CompositionKey) (*reaction.ScoreRanking, bool, error)
	Put(ctx context.Context, key reaction.CompositionKey, ranking *reaction.ScoreRanking) error
}

// MemoryCache is the in-process Cache used by single-run CLI invocations.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[reaction.CompositionKey]*reaction.ScoreRanking
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[reaction.CompositionKey]*reaction.ScoreRanking)}
}

func (c *MemoryCache) Get(_ context.Context, key reaction.CompositionKey) (*reaction.ScoreRanking, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, key reaction.CompositionKey, ranking *reaction.ScoreRanking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = ranking
	return nil
}

// Len returns the number of cached compositions.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
