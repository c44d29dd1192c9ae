package domain

// CandidateCommunity is a community surfaced by keyword search together
// with the counters gathered while checking its relevance.
// It is created fresh for every relevance check and never reused across runs.
type CandidateCommunity struct {
	// Name is the community name as reported by the post source.
	Name string `json:"name"`

	// SampledCount is the number of recent posts inspected.
	SampledCount int `json:"sampled_count"`

	// MatchedCount is the number of sampled posts that matched lexically or semantically.
	MatchedCount int `json:"matched_count"`

	// LexicalMatches counts posts matched by keyword containment.
	LexicalMatches int `json:"lexical_matches"`

	// SemanticMatches counts posts matched only by embedding similarity.
	SemanticMatches int `json:"semantic_matches"`

	// SkippedPosts counts posts whose semantic check could not run.
	SkippedPosts int `json:"skipped_posts,omitempty"`

	// Accepted is true when the counters meet the run's thresholds.
	Accepted bool `json:"accepted"`

	// Unavailable is true when the community's posts could not be sampled.
	Unavailable bool `json:"unavailable,omitempty"`
}

// Ratio returns MatchedCount / SampledCount, or 0 when nothing was sampled.
func (c CandidateCommunity) Ratio() float64 {
	if c.SampledCount == 0 {
		return 0
	}
	return float64(c.MatchedCount) / float64(c.SampledCount)
}
