package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// EmbeddingIndex wraps an embedding provider with cosine-similarity helpers.
// Every provider failure is reported as domain.ErrEmbeddingUnavailable so
// callers can fall back to lexical matching.
type EmbeddingIndex struct {
	provider driven.EmbeddingService
}

// NewEmbeddingIndex creates an index over provider. A nil provider yields an
// index whose encode calls always fail with domain.ErrEmbeddingUnavailable.
func NewEmbeddingIndex(provider driven.EmbeddingService) *EmbeddingIndex {
	return &EmbeddingIndex{provider: provider}
}

// Available reports whether a provider is configured.
func (x *EmbeddingIndex) Available() bool {
	return x != nil && x.provider != nil
}

// Encode embeds a single text.
func (x *EmbeddingIndex) Encode(ctx context.Context, text string) ([]float32, error) {
	if !x.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vec, err := x.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return vec, nil
}

// EncodeBatch embeds texts, returning one vector per input in input order.
func (x *EmbeddingIndex) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if !x.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vecs, err := x.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts",
			domain.ErrEmbeddingUnavailable, len(vecs), len(texts))
	}
	return vecs, nil
}

// Similarity returns the cosine similarity of a and b.
func (x *EmbeddingIndex) Similarity(a, b []float32) float64 {
	return CosineSimilarity(a, b)
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// Zero-length, zero-norm or dimension-mismatched vectors have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding drift.
	return math.Max(-1, math.Min(1, sim))
}

// MaxSimilarity returns the highest cosine similarity between v and any row of matrix.
// An empty matrix yields -1, which never exceeds a threshold.
func MaxSimilarity(v []float32, matrix [][]float32) float64 {
	best := -1.0
	for _, row := range matrix {
		if sim := CosineSimilarity(v, row); sim > best {
			best = sim
		}
	}
	return best
}
