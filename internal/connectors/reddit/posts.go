package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Ensure Client implements the ports.
var (
	_ driven.PostSource      = (*Client)(nil)
	_ driven.CommunityLookup = (*Client)(nil)
)

// Search returns posts across all communities matching keyword.
func (c *Client) Search(ctx context.Context, keyword string, sort domain.SortMode, limit int) ([]domain.Post, error) {
	if sort == "" {
		sort = domain.SortRelevance
	}
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("sort", string(sort))
	q.Set("type", "link")

	links, err := fetchListing[link](ctx, c, "/search", q, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	logger.Debug("reddit: search %q returned %d posts", keyword, len(links))
	return toPosts(links), nil
}

// RecentPosts returns the newest posts of a community.
func (c *Client) RecentPosts(ctx context.Context, community string, limit int) ([]domain.Post, error) {
	name := normaliseCommunity(community)
	links, err := fetchListing[link](ctx, c, "/r/"+url.PathEscape(name)+"/new", url.Values{}, limit)
	if err != nil {
		return nil, fmt.Errorf("recent posts r/%s: %w", name, err)
	}
	return toPosts(links), nil
}

// TopPosts returns the highest-scoring posts of a community for period.
func (c *Client) TopPosts(
	ctx context.Context, community string, period domain.TimeFilter, limit int,
) ([]domain.Post, error) {
	name := normaliseCommunity(community)
	if period == "" {
		period = domain.TimeFilterYear
	}
	q := url.Values{}
	q.Set("t", string(period))

	links, err := fetchListing[link](ctx, c, "/r/"+url.PathEscape(name)+"/top", q, limit)
	if err != nil {
		return nil, fmt.Errorf("top posts r/%s: %w", name, err)
	}
	return toPosts(links), nil
}

// RelatedTo searches communities by name and description, preserving
// Reddit's relevance order. Names in exclude are skipped case-insensitively.
func (c *Client) RelatedTo(ctx context.Context, seed string, exclude []string, maxResults int) ([]string, error) {
	if maxResults <= 0 || strings.TrimSpace(seed) == "" {
		return []string{}, nil
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[strings.ToLower(name)] = struct{}{}
	}

	q := url.Values{}
	q.Set("q", seed)
	subs, err := fetchListing[subreddit](ctx, c, "/subreddits/search", q, maxResults+len(exclude))
	if err != nil {
		return nil, fmt.Errorf("related communities for %q: %w", seed, err)
	}

	related := make([]string, 0, maxResults)
	for _, sub := range subs {
		if len(related) >= maxResults {
			break
		}
		key := strings.ToLower(sub.DisplayName)
		if key == "" {
			continue
		}
		if _, ok := skip[key]; ok {
			continue
		}
		skip[key] = struct{}{}
		related = append(related, sub.DisplayName)
	}
	return related, nil
}

func toPosts(links []link) []domain.Post {
	posts := make([]domain.Post, len(links))
	for i, l := range links {
		posts[i] = l.toPost()
	}
	return posts
}
