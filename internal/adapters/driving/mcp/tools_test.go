package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleDiscover(t *testing.T) {
	ctx := context.Background()

	t.Run("maps result to output", func(t *testing.T) {
		discovery := &mockDiscoveryService{
			result: &domain.DiscoveryResult{
				RunID:        "run-42",
				Mode:         domain.WorkflowManual,
				Keywords:     []string{"cycling", "bikes"},
				Accepted:     []string{"cycling"},
				Supplemental: []string{"bikepacking"},
				Candidates: []domain.CandidateCommunity{
					{Name: "cycling", SampledCount: 10, MatchedCount: 5, LexicalMatches: 4, SemanticMatches: 1, Accepted: true},
					{Name: "gaming", SampledCount: 10},
				},
				Skipped:    domain.SkipCounts{Keywords: 1},
				Thresholds: domain.DefaultThresholds(),
			},
		}
		server := newTestServer(t, &Ports{Discovery: discovery})

		_, output, err := server.handleDiscover(ctx, nil, DiscoverInput{Keywords: []string{"cycling"}})
		require.NoError(t, err)

		assert.Equal(t, "run-42", output.RunID)
		assert.Equal(t, "manual", output.Mode)
		assert.Equal(t, []string{"cycling"}, output.Accepted)
		assert.Equal(t, []string{"bikepacking"}, output.Supplemental)
		require.Len(t, output.Candidates, 2)
		assert.Equal(t, 0.5, output.Candidates[0].Ratio)
		assert.Equal(t, 4, output.Candidates[0].LexicalMatches)
		assert.True(t, output.Candidates[0].Accepted)
		assert.False(t, output.Candidates[1].Accepted)
		assert.Equal(t, 1, output.Skipped.Keywords)
	})

	t.Run("defaults apply without settings", func(t *testing.T) {
		discovery := &mockDiscoveryService{}
		server := newTestServer(t, &Ports{Discovery: discovery})

		_, _, err := server.handleDiscover(ctx, nil, DiscoverInput{Keywords: []string{"chess"}})
		require.NoError(t, err)

		req := discovery.lastRequest
		assert.Equal(t, domain.WorkflowManual, req.Mode)
		assert.Equal(t, []string{"chess"}, req.Keywords)
		assert.Equal(t, domain.DefaultDesiredCount, req.DesiredCount)
		assert.Nil(t, req.Thresholds)
	})

	t.Run("counts and thresholds override", func(t *testing.T) {
		discovery := &mockDiscoveryService{}
		server := newTestServer(t, &Ports{Discovery: discovery})

		minMatched := 5
		ratio := 0.1
		_, _, err := server.handleDiscover(ctx, nil, DiscoverInput{
			Keywords:        []string{"chess"},
			DesiredCount:    3,
			RelatedCount:    -1,
			MinMatchedPosts: &minMatched,
			MinRatio:        &ratio,
		})
		require.NoError(t, err)

		req := discovery.lastRequest
		assert.Equal(t, 3, req.DesiredCount)
		assert.Equal(t, -1, req.RelatedCount)
		require.NotNil(t, req.Thresholds)
		assert.Equal(t, 5, req.Thresholds.MinMatchedPosts)
		assert.Equal(t, 0.1, req.Thresholds.MinRatio)
		assert.Equal(t, domain.DefaultSemanticSimilarity, req.Thresholds.SemanticSimilarityThreshold)
	})

	t.Run("invalid mode returns error", func(t *testing.T) {
		discovery := &mockDiscoveryService{}
		server := newTestServer(t, &Ports{Discovery: discovery})

		_, _, err := server.handleDiscover(ctx, nil, DiscoverInput{Mode: "telepathy"})
		assert.ErrorIs(t, err, domain.ErrInvalidWorkflow)
	})

	t.Run("service error is returned", func(t *testing.T) {
		discovery := &mockDiscoveryService{err: context.Canceled}
		server := newTestServer(t, &Ports{Discovery: discovery})

		_, _, err := server.handleDiscover(ctx, nil, DiscoverInput{Keywords: []string{"chess"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestServer_request(t *testing.T) {
	configured := domain.DefaultAppSettings()
	configured.Discovery.Keywords = []string{"espresso"}
	configured.Discovery.DesiredCount = 7
	strict := domain.StrictThresholds()
	strict.MinMatchedPosts = 9
	configured.Discovery.Thresholds = &strict

	t.Run("configured defaults are used", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Discovery: &mockDiscoveryService{},
			Settings:  &mockSettingsService{settings: &configured},
		})

		req, err := server.request(SeedInput{})
		require.NoError(t, err)
		assert.Equal(t, []string{"espresso"}, req.Keywords)
		assert.Equal(t, 7, req.DesiredCount)
		require.NotNil(t, req.Thresholds)
		assert.Equal(t, 9, req.Thresholds.MinMatchedPosts)
	})

	t.Run("same mode keeps configured thresholds", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Discovery: &mockDiscoveryService{},
			Settings:  &mockSettingsService{settings: &configured},
		})

		req, err := server.request(SeedInput{Mode: "manual"})
		require.NoError(t, err)
		assert.NotNil(t, req.Thresholds)
	})

	t.Run("switching mode drops configured thresholds", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Discovery: &mockDiscoveryService{},
			Settings:  &mockSettingsService{settings: &configured},
		})

		req, err := server.request(SeedInput{
			Mode:           "auto-keywords",
			TargetCustomer: "home baristas",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.WorkflowAutoKeywords, req.Mode)
		assert.Nil(t, req.Thresholds)
		assert.Equal(t, "home baristas", req.Brand.TargetCustomer)
	})

	t.Run("settings error falls back to defaults", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Discovery: &mockDiscoveryService{},
			Settings:  &mockSettingsService{err: errors.New("broken file")},
		})

		req, err := server.request(SeedInput{})
		require.NoError(t, err)
		assert.Equal(t, domain.WorkflowManual, req.Mode)
		assert.Empty(t, req.Keywords)
	})
}

func TestServer_handleExpand(t *testing.T) {
	ctx := context.Background()

	t.Run("returns keyword set", func(t *testing.T) {
		discovery := &mockDiscoveryService{keywords: domain.NewKeywordSet("coffee", "espresso", "latte")}
		server := newTestServer(t, &Ports{Discovery: discovery})

		_, output, err := server.handleExpand(ctx, nil, SeedInput{Keywords: []string{"coffee"}})
		require.NoError(t, err)
		assert.Equal(t, "coffee", output.Primary)
		assert.Equal(t, []string{"coffee", "espresso", "latte"}, output.Keywords)
		assert.Equal(t, 3, output.Count)
	})

	t.Run("empty seed gives empty set", func(t *testing.T) {
		server := newTestServer(t, &Ports{Discovery: &mockDiscoveryService{}})

		_, output, err := server.handleExpand(ctx, nil, SeedInput{})
		require.NoError(t, err)
		assert.Empty(t, output.Primary)
		assert.Zero(t, output.Count)
	})
}

func TestServer_handleProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("returns profile", func(t *testing.T) {
		profile := &mockProfileService{profile: &domain.CommunityProfile{
			Community:      "espresso",
			PostCount:      12,
			QuestionTitles: 4,
		}}
		server := newTestServer(t, &Ports{Discovery: &mockDiscoveryService{}, Profile: profile})

		_, output, err := server.handleProfile(ctx, nil, ProfileInput{Community: "r/espresso", Period: "month", Limit: 25})
		require.NoError(t, err)
		assert.Equal(t, "espresso", output.Community)
		assert.Equal(t, 12, output.PostCount)
		assert.Equal(t, "r/espresso", profile.community)
		assert.Equal(t, domain.TimeFilter("month"), profile.period)
		assert.Equal(t, 25, profile.limit)
	})

	t.Run("service error is returned", func(t *testing.T) {
		profile := &mockProfileService{err: domain.ErrPostSourceUnavailable}
		server := newTestServer(t, &Ports{Discovery: &mockDiscoveryService{}, Profile: profile})

		_, _, err := server.handleProfile(ctx, nil, ProfileInput{Community: "espresso"})
		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	})
}
