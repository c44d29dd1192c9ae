package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 2, th.MinMatchedPosts)
	assert.InDelta(t, 0.02, th.MinRatio, 1e-9)
	assert.InDelta(t, 0.35, th.SemanticSimilarityThreshold, 1e-9)
}

func TestStrictThresholds_RaisesSemanticOnly(t *testing.T) {
	def := DefaultThresholds()
	strict := StrictThresholds()

	assert.Equal(t, def.MinMatchedPosts, strict.MinMatchedPosts)
	assert.InDelta(t, def.MinRatio, strict.MinRatio, 1e-9)
	assert.InDelta(t, 0.45, strict.SemanticSimilarityThreshold, 1e-9)
}

func TestRelevanceThresholds_Accepts(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		matched int
		sampled int
		want    bool
	}{
		{"nothing sampled", 0, 0, false},
		{"one of hundred", 1, 100, false},
		{"two of hundred", 2, 100, true},
		{"two of three", 2, 3, true},
		{"ratio below minimum", 2, 101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Accepts(tt.matched, tt.sampled))
		})
	}
}

func TestRelevanceThresholds_AcceptsNeverWithoutSamples(t *testing.T) {
	th := RelevanceThresholds{MinMatchedPosts: 0, MinRatio: 0}
	assert.False(t, th.Accepts(0, 0))
}

func TestRelevanceThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.ErrorIs(t, RelevanceThresholds{MinMatchedPosts: -1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, RelevanceThresholds{MinRatio: 1.5}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, RelevanceThresholds{SemanticSimilarityThreshold: 2}.Validate(), ErrInvalidInput)
}

func TestCandidateCommunity_Ratio(t *testing.T) {
	assert.Zero(t, CandidateCommunity{}.Ratio())
	assert.InDelta(t, 2.0/3.0, CandidateCommunity{MatchedCount: 2, SampledCount: 3}.Ratio(), 1e-9)
}
