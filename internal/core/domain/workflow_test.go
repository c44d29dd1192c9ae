package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkflowMode(t *testing.T) {
	tests := []struct {
		input string
		want  WorkflowMode
	}{
		{"manual", WorkflowManual},
		{"BRAND_CONTEXT", WorkflowBrandContext},
		{"auto-keywords", WorkflowAutoKeywords},
		{"  auto_keywords ", WorkflowAutoKeywords},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWorkflowMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWorkflowMode_Unknown(t *testing.T) {
	_, err := ParseWorkflowMode("spacy")
	assert.ErrorIs(t, err, ErrInvalidWorkflow)
	assert.Contains(t, err.Error(), "spacy")
}

func TestWorkflowMode_Thresholds(t *testing.T) {
	assert.Equal(t, DefaultThresholds(), WorkflowManual.Thresholds())
	assert.Equal(t, DefaultThresholds(), WorkflowBrandContext.Thresholds())
	assert.Equal(t, StrictThresholds(), WorkflowAutoKeywords.Thresholds())
}

func TestWorkflowMode_Capabilities(t *testing.T) {
	assert.True(t, WorkflowManual.UsesEmbeddingExpansion())
	assert.True(t, WorkflowBrandContext.UsesEmbeddingExpansion())
	assert.False(t, WorkflowAutoKeywords.UsesEmbeddingExpansion())

	assert.False(t, WorkflowManual.RequiresBrand())
	assert.True(t, WorkflowBrandContext.RequiresBrand())
	assert.True(t, WorkflowAutoKeywords.RequiresBrand())
}

func TestWorkflowMode_Description(t *testing.T) {
	assert.Equal(t, unknownDescription, WorkflowMode("other").Description())
	assert.Contains(t, WorkflowAutoKeywords.Description(), "strict")
}

func TestDiscoveryRequest_Normalised(t *testing.T) {
	req := DiscoveryRequest{Mode: WorkflowManual, RelatedCount: -3}.Normalised()
	assert.Equal(t, DefaultDesiredCount, req.DesiredCount)
	assert.Equal(t, 0, req.RelatedCount)

	req = DiscoveryRequest{Mode: WorkflowManual}.Normalised()
	assert.Equal(t, DefaultRelatedCount, req.RelatedCount)
}

func TestDiscoveryRequest_EffectiveThresholds(t *testing.T) {
	req := DiscoveryRequest{Mode: WorkflowAutoKeywords}
	assert.Equal(t, StrictThresholds(), req.EffectiveThresholds())

	override := RelevanceThresholds{MinMatchedPosts: 5, MinRatio: 0.1, SemanticSimilarityThreshold: 0.6}
	req.Thresholds = &override
	assert.Equal(t, override, req.EffectiveThresholds())
}

func TestDiscoveryRequest_Validate(t *testing.T) {
	assert.NoError(t, DiscoveryRequest{Mode: WorkflowManual}.Validate())
	assert.ErrorIs(t, DiscoveryRequest{Mode: "bogus"}.Validate(), ErrInvalidWorkflow)

	bad := RelevanceThresholds{MinRatio: -1}
	assert.ErrorIs(t, DiscoveryRequest{Mode: WorkflowManual, Thresholds: &bad}.Validate(), ErrInvalidInput)
}

func TestBrandContext_Terms(t *testing.T) {
	b := BrandContext{
		TargetCustomer:     "Sales teams, Founders",
		IntersectionTopics: "B2B Data,GTM",
	}
	assert.Equal(t, []string{"Sales teams", "Founders"}, b.Customers())
	assert.Equal(t, []string{"B2B Data", "GTM"}, b.Topics())
	assert.False(t, b.IsEmpty())
	assert.True(t, BrandContext{TargetCustomer: " , "}.IsEmpty())
}

func TestDiscoveryResult_Summary(t *testing.T) {
	r := DiscoveryResult{
		RunID:        "run-1",
		Mode:         WorkflowManual,
		Keywords:     []string{"sales automation", "crm"},
		Accepted:     []string{"sales"},
		Supplemental: []string{"a", "b"},
	}
	s := r.Summary()
	assert.Equal(t, "sales automation", s.PrimaryKeyword)
	assert.Equal(t, 1, s.AcceptedCount)
	assert.Equal(t, 2, s.SupplementalCount)
	assert.Zero(t, r.Duration())
}

func TestSkipCounts_Total(t *testing.T) {
	s := SkipCounts{Keywords: 1, Candidates: 2, Posts: 3, Lookups: 4, Embeddings: 5}
	assert.Equal(t, 15, s.Total())
}
