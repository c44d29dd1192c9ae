package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

type discoveryFixture struct {
	source   *mockPostSource
	embedder *stubEmbedder
	lookup   *mockLookup
	runs     *mockRunStore
	service  *DiscoveryService
}

// newDiscoveryFixture builds a service; embedder may be nil for lexical-only runs.
func newDiscoveryFixture(embedder *stubEmbedder) *discoveryFixture {
	f := &discoveryFixture{
		source:   newMockPostSource(),
		embedder: embedder,
		lookup:   &mockLookup{},
		runs:     newMockRunStore(),
	}
	var index *EmbeddingIndex
	if embedder != nil {
		index = NewEmbeddingIndex(embedder)
	}
	f.service = NewDiscoveryService(
		NewKeywordExpander(index, nil),
		index,
		NewCandidateAggregator(f.source),
		NewRelevanceScorer(f.source, index),
		f.lookup,
		f.runs,
	)
	f.service.newID = func() string { return "run-1" }
	f.service.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

// addCommunity registers a community found by keyword with n recent posts,
// the first matched of which contain keyword.
func (f *discoveryFixture) addCommunity(keyword, name string, n, matched int) {
	f.source.search[keyword] = append(f.source.search[keyword], post("s-"+name, name, keyword, ""))
	posts := make([]domain.Post, n)
	for i := range posts {
		title := "unrelated chatter"
		if i < matched {
			title = "thoughts on " + keyword
		}
		posts[i] = post(fmt.Sprintf("%s-%d", name, i), name, title, "")
	}
	f.source.recent[name] = posts
}

type recordingObserver struct {
	mu     sync.Mutex
	events []domain.DiscoveryEvent
}

func (o *recordingObserver) OnEvent(e domain.DiscoveryEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) kinds() []domain.DiscoveryEventKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.DiscoveryEventKind, len(o.events))
	for i, e := range o.events {
		out[i] = e.Kind
	}
	return out
}

var _ driven.DiscoveryObserver = (*recordingObserver)(nil)

func TestDiscoveryService_Discover_EndToEnd(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.addCommunity("sales automation", "GrowthHacking", 3, 2)
	f.addCommunity("sales automation", "Cooking", 3, 0)
	f.lookup.related = []string{"growthhacking", "SaaS", "Entrepreneur", "SaaS"}
	observer := &recordingObserver{}

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode:     domain.WorkflowManual,
		Keywords: []string{"sales automation"},
	}, observer)

	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, []string{"sales automation"}, result.Keywords)
	assert.Equal(t, []string{"GrowthHacking"}, result.Accepted)
	assert.Equal(t, []string{"SaaS", "Entrepreneur"}, result.Supplemental)
	assert.Equal(t, 2, result.CandidateCount)
	require.Len(t, result.Candidates, 2)

	gh := result.Candidates[0]
	assert.Equal(t, 2, gh.MatchedCount)
	assert.Equal(t, 3, gh.SampledCount)
	assert.InDelta(t, 0.667, gh.Ratio(), 0.001)

	assert.Equal(t, "sales automation", f.lookup.seed)
	assert.Equal(t, []string{"GrowthHacking"}, f.lookup.exclude)
	assert.Equal(t, domain.DefaultRelatedCount, f.lookup.max)

	_, saved := f.runs.runs["run-1"]
	assert.True(t, saved)

	kinds := observer.kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, domain.EventFinished, kinds[len(kinds)-1])
	assert.Contains(t, kinds, domain.EventKeywordFetched)
	assert.Contains(t, kinds, domain.EventCandidateScored)
}

func TestDiscoveryService_Discover_StopsAtDesiredCount(t *testing.T) {
	f := newDiscoveryFixture(nil)
	for i := range 5 {
		f.addCommunity("crm", fmt.Sprintf("c%d", i), 10, 5)
	}

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode:         domain.WorkflowManual,
		Keywords:     []string{"crm"},
		DesiredCount: 2,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"c0", "c1"}, result.Accepted)
	assert.Equal(t, []string{"c0", "c1"}, f.source.RecentCalls())
	assert.Equal(t, 5, result.CandidateCount)
}

func TestDiscoveryService_Discover_ParallelScoringMatchesSequential(t *testing.T) {
	build := func(concurrency int) *discoveryFixture {
		f := newDiscoveryFixture(nil)
		for i := range 8 {
			matched := 5
			if i%3 == 1 {
				matched = 0
			}
			f.addCommunity("crm", fmt.Sprintf("c%d", i), 10, matched)
		}
		f.service.SetScoringConcurrency(concurrency)
		return f
	}
	req := domain.DiscoveryRequest{Mode: domain.WorkflowManual, Keywords: []string{"crm"}, DesiredCount: 3}

	want, err := build(1).service.Discover(context.Background(), req, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"c0", "c2", "c3"}, want.Accepted)

	for range 10 {
		got, err := build(4).service.Discover(context.Background(), req, nil)
		require.NoError(t, err)
		assert.Equal(t, want.Accepted, got.Accepted)
		assert.LessOrEqual(t, len(got.Accepted), req.DesiredCount)
	}
}

func TestDiscoveryService_Discover_InvalidWorkflow(t *testing.T) {
	f := newDiscoveryFixture(nil)

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{Mode: "weekly"}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidWorkflow)
	assert.Nil(t, result)
	assert.Empty(t, f.source.searched)
}

func TestDiscoveryService_Discover_EmptyKeywords(t *testing.T) {
	f := newDiscoveryFixture(nil)

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual,
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, result.Supplemental)
	assert.Empty(t, f.source.searched)
}

func TestDiscoveryService_Discover_NoCandidates(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.lookup.related = []string{"sales"}

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm"},
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Equal(t, []string{"sales"}, result.Supplemental)
}

func TestDiscoveryService_Discover_ContainsCollaboratorFailures(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.addCommunity("crm", "good", 10, 5)
	f.addCommunity("crm", "private", 10, 5)
	f.source.recentErrs["private"] = domain.ErrNotFound
	f.source.searchErrs["pipeline"] = errUpstream
	f.lookup.err = errUpstream

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm", "pipeline"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, result.Accepted)
	assert.Empty(t, result.Supplemental)
	assert.Equal(t, 1, result.Skipped.Keywords)
	assert.Equal(t, 1, result.Skipped.Candidates)
	assert.Equal(t, 1, result.Skipped.Lookups)
	assert.True(t, result.Candidates[1].Unavailable)
}

func TestDiscoveryService_Discover_EmbeddingFailureFallsBackToLexical(t *testing.T) {
	embedder := newStubEmbedder(nil)
	embedder.batchErr = errUpstream
	f := newDiscoveryFixture(embedder)
	f.addCommunity("crm", "sales", 10, 3)

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, result.Accepted)
	assert.Equal(t, 1, result.Skipped.Embeddings)
	assert.Equal(t, 0, embedder.EmbedCalls(), "no semantic checks without keyword embeddings")
}

func TestDiscoveryService_Discover_AutoKeywordsUsesStrictThresholds(t *testing.T) {
	f := newDiscoveryFixture(nil)

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode:  domain.WorkflowAutoKeywords,
		Brand: domain.BrandContext{TargetCustomer: "Founders", IntersectionTopics: "GTM"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StrictThresholds(), result.Thresholds)
	assert.Equal(t, "GTM", result.Keywords[0])
	assert.Equal(t, "GTM", f.lookup.seed)
}

func TestDiscoveryService_Discover_ThresholdOverride(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.addCommunity("crm", "niche", 10, 1)
	override := domain.RelevanceThresholds{MinMatchedPosts: 1, MinRatio: 0.05, SemanticSimilarityThreshold: 0.35}

	result, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm"}, Thresholds: &override,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"niche"}, result.Accepted)
}

func TestDiscoveryService_Discover_Cancelled(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.addCommunity("crm", "sales", 10, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.service.Discover(ctx, domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm"},
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, f.runs.runs, "cancelled runs are not persisted")
}

func TestDiscoveryService_Discover_SaveFailureIsNotFatal(t *testing.T) {
	f := newDiscoveryFixture(nil)
	f.runs.saveErr = errUpstream

	_, err := f.service.Discover(context.Background(), domain.DiscoveryRequest{
		Mode: domain.WorkflowManual, Keywords: []string{"crm"},
	}, nil)

	assert.NoError(t, err)
}

func TestDiscoveryService_ExpandKeywords(t *testing.T) {
	f := newDiscoveryFixture(nil)

	ks, err := f.service.ExpandKeywords(context.Background(), domain.DiscoveryRequest{
		Mode:  domain.WorkflowBrandContext,
		Brand: domain.BrandContext{TargetCustomer: "Founders", IntersectionTopics: "GTM"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GTM", "Founders"}, ks.Keywords())

	_, err = f.service.ExpandKeywords(context.Background(), domain.DiscoveryRequest{Mode: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidWorkflow)
}

func TestSupplementalList(t *testing.T) {
	got := supplementalList(
		[]string{"Sales", "startups", "", "SaaS", "saas", "marketing"},
		[]string{"sales"},
		2,
	)

	assert.Equal(t, []string{"startups", "SaaS"}, got)
}
