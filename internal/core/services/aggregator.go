package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Aggregation limits.
const (
	// MaxSearchKeywords is the number of leading keywords used for post search.
	MaxSearchKeywords = 10

	// DefaultPostsPerKeyword caps the posts requested per keyword search.
	DefaultPostsPerKeyword = 150
)

// FetchReport is the outcome of a keyword fetch pass.
type FetchReport struct {
	// Posts are deduplicated by ID, in keyword order then source order.
	Posts []domain.Post

	// SkippedKeywords counts searches that failed.
	SkippedKeywords int
}

// keywordFetchFunc is notified after each keyword search completes.
// posts is the raw number returned; err is set when the search failed.
type keywordFetchFunc func(keyword string, posts int, err error)

// CandidateAggregator collects posts for a keyword set and derives the
// ordered list of communities they were posted in.
type CandidateAggregator struct {
	source      driven.PostSource
	concurrency int
}

// NewCandidateAggregator creates an aggregator that searches sequentially.
func NewCandidateAggregator(source driven.PostSource) *CandidateAggregator {
	return &CandidateAggregator{source: source, concurrency: 1}
}

// SetConcurrency bounds the number of keyword searches in flight.
// Output ordering is the same for any value.
func (a *CandidateAggregator) SetConcurrency(n int) {
	if n > 0 {
		a.concurrency = n
	}
}

// FetchPosts searches the first MaxSearchKeywords keywords and merges the
// results in keyword order. A failed search is logged and skipped.
// On cancellation the posts gathered so far are returned with ctx.Err().
func (a *CandidateAggregator) FetchPosts(ctx context.Context, keywords []string, maxPostsPerKeyword int) (FetchReport, error) {
	return a.fetch(ctx, keywords, maxPostsPerKeyword, nil)
}

func (a *CandidateAggregator) fetch(
	ctx context.Context,
	keywords []string,
	maxPostsPerKeyword int,
	notify keywordFetchFunc,
) (FetchReport, error) {
	if len(keywords) > MaxSearchKeywords {
		keywords = keywords[:MaxSearchKeywords]
	}
	if maxPostsPerKeyword <= 0 {
		maxPostsPerKeyword = DefaultPostsPerKeyword
	}

	type slot struct {
		posts []domain.Post
		err   error
		done  bool
	}
	slots := make([]slot, len(keywords))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			posts, err := a.source.Search(ctx, keyword, domain.SortRelevance, maxPostsPerKeyword)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			slots[i] = slot{posts: posts, err: err, done: true}
			if err != nil {
				logger.Warn("Post search failed for %q: %v", keyword, err)
			} else {
				logger.Debug("Keyword %q: %d posts", keyword, len(posts))
			}
			if notify != nil {
				notify(keyword, len(posts), err)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	report := FetchReport{}
	seen := make(map[string]struct{})
	for _, s := range slots {
		if !s.done {
			continue
		}
		if s.err != nil {
			report.SkippedKeywords++
			continue
		}
		for _, post := range s.posts {
			if post.ID != "" {
				if _, dup := seen[post.ID]; dup {
					continue
				}
				seen[post.ID] = struct{}{}
			}
			report.Posts = append(report.Posts, post)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if waitErr != nil {
		return report, waitErr
	}
	logger.Debug("Fetched %d unique posts for %d keywords", len(report.Posts), len(keywords))
	return report, nil
}

// UniqueCommunities returns the communities of posts in first-seen order.
func (a *CandidateAggregator) UniqueCommunities(posts []domain.Post) []string {
	return UniqueCommunities(posts)
}

// UniqueCommunities returns the communities of posts in first-seen order,
// dropping later duplicates and empty names.
func UniqueCommunities(posts []domain.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	communities := make([]string, 0)
	for _, post := range posts {
		if post.Community == "" {
			continue
		}
		if _, ok := seen[post.Community]; ok {
			continue
		}
		seen[post.Community] = struct{}{}
		communities = append(communities, post.Community)
	}
	return communities
}
