package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// DefaultSampleSize is the number of recent posts sampled per candidate.
const DefaultSampleSize = 100

// RelevanceScorer decides whether a candidate community is on topic by
// sampling its newest posts.
type RelevanceScorer struct {
	source     driven.PostSource
	index      *EmbeddingIndex
	sampleSize int
}

// NewRelevanceScorer creates a scorer. index may be nil for lexical-only scoring.
func NewRelevanceScorer(source driven.PostSource, index *EmbeddingIndex) *RelevanceScorer {
	return &RelevanceScorer{
		source:     source,
		index:      index,
		sampleSize: DefaultSampleSize,
	}
}

// SetSampleSize overrides the number of posts sampled per candidate.
func (s *RelevanceScorer) SetSampleSize(n int) {
	if n > 0 {
		s.sampleSize = n
	}
}

// Score samples community and counts posts matching keywords.
//
// keywordEmbeddings must be positionally aligned with keywords; when it is
// empty, only lexical matching is used. If the community cannot be sampled,
// the returned candidate is marked Unavailable and the error wraps
// domain.ErrPostSourceUnavailable. Context cancellation is returned as is.
func (s *RelevanceScorer) Score(
	ctx context.Context,
	community string,
	keywords []string,
	keywordEmbeddings [][]float32,
	thresholds domain.RelevanceThresholds,
) (domain.CandidateCommunity, error) {
	return s.score(ctx, community, newLexicalMatcher(keywords), keywordEmbeddings, thresholds)
}

func (s *RelevanceScorer) score(
	ctx context.Context,
	community string,
	lexical *lexicalMatcher,
	keywordEmbeddings [][]float32,
	thresholds domain.RelevanceThresholds,
) (domain.CandidateCommunity, error) {
	candidate := domain.CandidateCommunity{Name: community}

	posts, err := s.source.RecentPosts(ctx, community, s.sampleSize)
	if err != nil {
		if ctx.Err() != nil {
			return candidate, ctx.Err()
		}
		candidate.Unavailable = true
		return candidate, fmt.Errorf("%w: sample %s: %w", domain.ErrPostSourceUnavailable, community, err)
	}
	if len(posts) > s.sampleSize {
		posts = posts[:s.sampleSize]
	}

	semantic := len(keywordEmbeddings) > 0 && s.index.Available()

	for _, post := range posts {
		candidate.SampledCount++
		text := post.Text()

		if lexical.Matches(text) {
			candidate.MatchedCount++
			candidate.LexicalMatches++
			continue
		}
		if !semantic {
			continue
		}

		if err := ctx.Err(); err != nil {
			return domain.CandidateCommunity{Name: community}, err
		}
		vec, err := s.index.Encode(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return domain.CandidateCommunity{Name: community}, ctx.Err()
			}
			candidate.SkippedPosts++
			logger.Warn("%s: semantic check skipped for post %s: %v", community, post.ID, err)
			continue
		}
		if MaxSimilarity(vec, keywordEmbeddings) > thresholds.SemanticSimilarityThreshold {
			candidate.MatchedCount++
			candidate.SemanticMatches++
		}
	}

	candidate.Accepted = thresholds.Accepts(candidate.MatchedCount, candidate.SampledCount)

	logger.Debug("%s: %d relevant posts / %d recent posts (lexical=%d, semantic=%d)",
		community, candidate.MatchedCount, candidate.SampledCount,
		candidate.LexicalMatches, candidate.SemanticMatches)
	logger.Debug("%s: relevance passes: %t (min_posts=%d, min_ratio=%.3f, ratio=%.3f)",
		community, candidate.Accepted, thresholds.MinMatchedPosts, thresholds.MinRatio, candidate.Ratio())

	return candidate, nil
}
