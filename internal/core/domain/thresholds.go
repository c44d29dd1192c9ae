package domain

import "fmt"

// Reference threshold values.
const (
	DefaultMinMatchedPosts    = 2
	DefaultMinRatio           = 0.02
	DefaultSemanticSimilarity = 0.35
	StrictSemanticSimilarity  = 0.45
)

// RelevanceThresholds is the pass condition for a candidate community.
// One instance is selected per workflow at the start of a run and held constant.
type RelevanceThresholds struct {
	// MinMatchedPosts is the minimum number of matching sampled posts.
	MinMatchedPosts int `json:"min_matched_posts"`

	// MinRatio is the minimum fraction of sampled posts that must match.
	MinRatio float64 `json:"min_ratio"`

	// SemanticSimilarityThreshold is the cosine similarity a post must exceed
	// against its closest keyword to count as a semantic match.
	SemanticSimilarityThreshold float64 `json:"semantic_similarity_threshold"`
}

// DefaultThresholds returns the thresholds used by keyword-expansion workflows.
func DefaultThresholds() RelevanceThresholds {
	return RelevanceThresholds{
		MinMatchedPosts:             DefaultMinMatchedPosts,
		MinRatio:                    DefaultMinRatio,
		SemanticSimilarityThreshold: DefaultSemanticSimilarity,
	}
}

// StrictThresholds returns the thresholds used for auto-generated keywords.
// Generated keyword sets carry more tangential phrases, so semantic agreement
// must be tighter.
func StrictThresholds() RelevanceThresholds {
	t := DefaultThresholds()
	t.SemanticSimilarityThreshold = StrictSemanticSimilarity
	return t
}

// Accepts reports whether the given counters pass the thresholds.
// A community with no sampled posts never passes.
func (t RelevanceThresholds) Accepts(matched, sampled int) bool {
	if sampled == 0 {
		return false
	}
	ratio := float64(matched) / float64(sampled)
	return matched >= t.MinMatchedPosts && ratio >= t.MinRatio
}

// Validate checks that every threshold is within its meaningful range.
func (t RelevanceThresholds) Validate() error {
	if t.MinMatchedPosts < 0 {
		return fmt.Errorf("%w: min matched posts must not be negative", ErrInvalidInput)
	}
	if t.MinRatio < 0 || t.MinRatio > 1 {
		return fmt.Errorf("%w: min ratio must be within [0, 1]", ErrInvalidInput)
	}
	if t.SemanticSimilarityThreshold < -1 || t.SemanticSimilarityThreshold > 1 {
		return fmt.Errorf("%w: semantic similarity threshold must be within [-1, 1]", ErrInvalidInput)
	}
	return nil
}
