package driven

import (
	"context"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// PostSource reads posts from an online discussion platform.
// Returned posts carry a stable ID and the name of their community.
// Retry and backoff policy belong to the implementation.
type PostSource interface {
	// Search returns up to limit posts matching keyword across all communities.
	Search(ctx context.Context, keyword string, sort domain.SortMode, limit int) ([]domain.Post, error)

	// RecentPosts returns up to limit of the newest posts in a community.
	RecentPosts(ctx context.Context, community string, limit int) ([]domain.Post, error)

	// TopPosts returns up to limit of the highest scored posts in a community for a period.
	TopPosts(ctx context.Context, community string, period domain.TimeFilter, limit int) ([]domain.Post, error)

	// Comments returns up to limit comments of a post, flattened breadth-first
	// from the top-level replies down. A non-positive limit returns every
	// comment the source serves in one response.
	Comments(ctx context.Context, postID string, limit int) ([]domain.Comment, error)
}

// CommunityLookup suggests communities related to a seed term.
type CommunityLookup interface {
	// RelatedTo returns up to maxResults community names in the lookup's own
	// relevance order, skipping any name in exclude (case-insensitive).
	RelatedTo(ctx context.Context, seed string, exclude []string, maxResults int) ([]string, error)
}

// Vocabulary lists known terms available for embedding-neighbourhood expansion.
type Vocabulary interface {
	// Terms returns the vocabulary in a stable order.
	Terms(ctx context.Context) ([]string, error)
}
