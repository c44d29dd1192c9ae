package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

type cacheKey struct {
	model string
	text  string
}

// EmbeddingCache is a process-local driven.EmbeddingCache.
type EmbeddingCache struct {
	mu      sync.RWMutex
	vectors map[cacheKey][]float32
}

// NewEmbeddingCache creates an empty cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{vectors: make(map[cacheKey][]float32)}
}

// Get returns a copy of the cached vector.
func (c *EmbeddingCache) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.vectors[cacheKey{model, text}]
	if !ok {
		return nil, false, nil
	}
	return append([]float32(nil), vec...), true, nil
}

// Put stores a copy of vector.
func (c *EmbeddingCache) Put(_ context.Context, model, text string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[cacheKey{model, text}] = append([]float32(nil), vector...)
	return nil
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
