package driving

import (
	"context"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// DiscoveryService finds communities relevant to a seed.
type DiscoveryService interface {
	// Discover runs the full pipeline for req. Collaborator failures are contained
	// and reported in the result; only configuration errors and caller
	// cancellation are returned as errors. On cancellation the partial result
	// is returned alongside the context error.
	Discover(ctx context.Context, req domain.DiscoveryRequest, observer driven.DiscoveryObserver) (*domain.DiscoveryResult, error)

	// ExpandKeywords runs only the keyword stage for req.
	ExpandKeywords(ctx context.Context, req domain.DiscoveryRequest) (domain.KeywordSet, error)
}

// RunHistoryService exposes previously persisted discovery runs.
type RunHistoryService interface {
	// List returns summaries of recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Get returns a stored run by ID.
	Get(ctx context.Context, runID string) (*domain.DiscoveryResult, error)

	// Delete removes a stored run. Returns domain.ErrNotFound for unknown IDs.
	Delete(ctx context.Context, runID string) error
}

// ProfileService summarises a community's posting style.
type ProfileService interface {
	// Profile analyses up to limit top posts of the community for the period.
	Profile(ctx context.Context, community string, period domain.TimeFilter, limit int) (*domain.CommunityProfile, error)

	// Scrape returns up to limit top posts of the community, each carrying up
	// to commentLimit comments. A non-positive commentLimit keeps every
	// comment served for the post.
	Scrape(ctx context.Context, community string, period domain.TimeFilter, limit, commentLimit int) ([]domain.Post, error)
}
