// Package cached wraps an embedding service with a persistent vector cache.
package cached

import (
	"context"
	"fmt"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService serves embeddings from cache and computes misses with
// the wrapped service. Cache failures are logged and never fail a call.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// NewEmbeddingService wraps inner with cache.
func NewEmbeddingService(inner driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{inner: inner, cache: cache}
}

// Embed returns the cached vector for text or computes and stores it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.lookup(ctx, text); ok {
		return vec, nil
	}
	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.store(ctx, text, vec)
	return vec, nil
}

// EmbedBatch computes only the cache misses, in a single inner batch call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := s.lookup(ctx, text); ok {
			out[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("%w: batch returned %d vectors for %d texts",
			domain.ErrEmbeddingUnavailable, len(vecs), len(missTexts))
	}
	for j, vec := range vecs {
		out[missIdx[j]] = vec
		s.store(ctx, missTexts[j], vec)
	}
	logger.Debug("Embedding cache: %d hits, %d misses", len(texts)-len(missTexts), len(missTexts))
	return out, nil
}

func (s *EmbeddingService) lookup(ctx context.Context, text string) ([]float32, bool) {
	vec, ok, err := s.cache.Get(ctx, s.inner.ModelName(), text)
	if err != nil {
		logger.Debug("Embedding cache read failed: %v", err)
		return nil, false
	}
	return vec, ok
}

func (s *EmbeddingService) store(ctx context.Context, text string, vec []float32) {
	if err := s.cache.Put(ctx, s.inner.ModelName(), text, vec); err != nil {
		logger.Debug("Embedding cache write failed: %v", err)
	}
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping checks the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service. The cache is owned by the caller.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
