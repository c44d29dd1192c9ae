package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// SeedInput carries the seed shared by the discovery and expansion tools.
// Unset fields fall back to the configured defaults.
type SeedInput struct {
	Mode               string   `json:"mode,omitempty" jsonschema:"workflow: manual, brand_context or auto_keywords"`
	Keywords           []string `json:"keywords,omitempty" jsonschema:"seed keywords for the manual workflow"`
	TargetCustomer     string   `json:"target_customer,omitempty" jsonschema:"comma-separated customer descriptions for brand workflows"`
	IntersectionTopics string   `json:"intersection_topics,omitempty" jsonschema:"comma-separated topics for brand workflows"`
}

// DiscoverInput is the input schema for the discover_communities tool.
type DiscoverInput struct {
	Mode               string   `json:"mode,omitempty" jsonschema:"workflow: manual, brand_context or auto_keywords"`
	Keywords           []string `json:"keywords,omitempty" jsonschema:"seed keywords for the manual workflow"`
	TargetCustomer     string   `json:"target_customer,omitempty" jsonschema:"comma-separated customer descriptions for brand workflows"`
	IntersectionTopics string   `json:"intersection_topics,omitempty" jsonschema:"comma-separated topics for brand workflows"`
	DesiredCount       int      `json:"desired_count,omitempty" jsonschema:"maximum accepted communities (default 20)"`
	RelatedCount       int      `json:"related_count,omitempty" jsonschema:"maximum related communities, -1 disables the lookup (default 20)"`
	MinMatchedPosts    *int     `json:"min_matched_posts,omitempty" jsonschema:"minimum matching posts for acceptance"`
	MinRatio           *float64 `json:"min_ratio,omitempty" jsonschema:"minimum fraction of sampled posts that must match"`
	SemanticSimilarity *float64 `json:"semantic_similarity,omitempty" jsonschema:"cosine similarity a post must exceed to match semantically"`
}

func (in DiscoverInput) seed() SeedInput {
	return SeedInput{
		Mode:               in.Mode,
		Keywords:           in.Keywords,
		TargetCustomer:     in.TargetCustomer,
		IntersectionTopics: in.IntersectionTopics,
	}
}

// DiscoverOutput is the output schema for the discover_communities tool.
type DiscoverOutput struct {
	RunID        string                     `json:"run_id"`
	Mode         string                     `json:"mode"`
	Keywords     []string                   `json:"keywords"`
	Accepted     []string                   `json:"accepted"`
	Supplemental []string                   `json:"supplemental"`
	Candidates   []CandidateOutput          `json:"candidates"`
	Skipped      domain.SkipCounts          `json:"skipped"`
	Thresholds   domain.RelevanceThresholds `json:"thresholds"`
}

// CandidateOutput is one scored community.
type CandidateOutput struct {
	Name            string  `json:"name"`
	Sampled         int     `json:"sampled"`
	Matched         int     `json:"matched"`
	LexicalMatches  int     `json:"lexical_matches"`
	SemanticMatches int     `json:"semantic_matches"`
	Ratio           float64 `json:"ratio"`
	Accepted        bool    `json:"accepted"`
	Unavailable     bool    `json:"unavailable,omitempty"`
}

// ExpandOutput is the output schema for the expand_keywords tool.
type ExpandOutput struct {
	Primary  string   `json:"primary"`
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// ProfileInput is the input schema for the profile_community tool.
type ProfileInput struct {
	Community string `json:"community" jsonschema:"community name, with or without the r/ prefix"`
	Period    string `json:"period,omitempty" jsonschema:"top-post period: day, week, month, year or all (default year)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum posts to analyse (default 100)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "discover_communities",
		Description: "Find Reddit communities relevant to seed keywords or a brand context. " +
			"Returns accepted communities in discovery order plus related suggestions.",
	}, s.handleDiscover)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand_keywords",
		Description: "Show the keyword set a discovery run would search for",
	}, s.handleExpand)

	if s.ports.Profile != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "profile_community",
			Description: "Summarise the title and body style of a community's top posts",
		}, s.handleProfile)
	}
}

// handleDiscover handles the discover_communities tool invocation.
func (s *Server) handleDiscover(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiscoverInput,
) (*mcp.CallToolResult, DiscoverOutput, error) {
	req, err := s.request(input.seed())
	if err != nil {
		return nil, DiscoverOutput{}, err
	}
	if input.DesiredCount > 0 {
		req.DesiredCount = input.DesiredCount
	}
	if input.RelatedCount != 0 {
		req.RelatedCount = input.RelatedCount
	}
	if input.MinMatchedPosts != nil || input.MinRatio != nil || input.SemanticSimilarity != nil {
		th := req.EffectiveThresholds()
		if input.MinMatchedPosts != nil {
			th.MinMatchedPosts = *input.MinMatchedPosts
		}
		if input.MinRatio != nil {
			th.MinRatio = *input.MinRatio
		}
		if input.SemanticSimilarity != nil {
			th.SemanticSimilarityThreshold = *input.SemanticSimilarity
		}
		req.Thresholds = &th
	}

	result, err := s.ports.Discovery.Discover(ctx, req, nil)
	if err != nil {
		return nil, DiscoverOutput{}, err
	}

	output := DiscoverOutput{
		RunID:        result.RunID,
		Mode:         result.Mode.String(),
		Keywords:     result.Keywords,
		Accepted:     result.Accepted,
		Supplemental: result.Supplemental,
		Candidates:   make([]CandidateOutput, len(result.Candidates)),
		Skipped:      result.Skipped,
		Thresholds:   result.Thresholds,
	}
	for i, c := range result.Candidates {
		output.Candidates[i] = CandidateOutput{
			Name:            c.Name,
			Sampled:         c.SampledCount,
			Matched:         c.MatchedCount,
			LexicalMatches:  c.LexicalMatches,
			SemanticMatches: c.SemanticMatches,
			Ratio:           c.Ratio(),
			Accepted:        c.Accepted,
			Unavailable:     c.Unavailable,
		}
	}

	return nil, output, nil
}

// handleExpand handles the expand_keywords tool invocation.
func (s *Server) handleExpand(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SeedInput,
) (*mcp.CallToolResult, ExpandOutput, error) {
	req, err := s.request(input)
	if err != nil {
		return nil, ExpandOutput{}, err
	}

	keywords, err := s.ports.Discovery.ExpandKeywords(ctx, req)
	if err != nil {
		return nil, ExpandOutput{}, err
	}

	primary, _ := keywords.Primary()
	return nil, ExpandOutput{
		Primary:  primary,
		Keywords: keywords.Keywords(),
		Count:    keywords.Len(),
	}, nil
}

// handleProfile handles the profile_community tool invocation.
func (s *Server) handleProfile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProfileInput,
) (*mcp.CallToolResult, domain.CommunityProfile, error) {
	profile, err := s.ports.Profile.Profile(ctx, input.Community, domain.TimeFilter(input.Period), input.Limit)
	if err != nil {
		return nil, domain.CommunityProfile{}, err
	}
	return nil, *profile, nil
}

// request builds a run request from the configured defaults overlaid with input.
func (s *Server) request(input SeedInput) (domain.DiscoveryRequest, error) {
	req := domain.DefaultAppSettings().Discovery.Request()
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			logger.Warn("Reading settings failed, using defaults: %v", err)
		} else {
			req = settings.Discovery.Request()
		}
	}

	if input.Mode != "" {
		mode, err := domain.ParseWorkflowMode(input.Mode)
		if err != nil {
			return domain.DiscoveryRequest{}, err
		}
		if mode != req.Mode {
			// Configured thresholds belong to the configured mode.
			req.Thresholds = nil
		}
		req.Mode = mode
	}
	if len(input.Keywords) > 0 {
		req.Keywords = input.Keywords
	}
	if input.TargetCustomer != "" || input.IntersectionTopics != "" {
		req.Brand = domain.BrandContext{
			TargetCustomer:     input.TargetCustomer,
			IntersectionTopics: input.IntersectionTopics,
		}
	}
	return req, nil
}
