package reddit

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// listing is the envelope of every paginated Reddit response.
type listing[T any] struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string `json:"kind"`
			Data T      `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// link is the subset of a t3 (post) object we read.
type link struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	Subreddit     string  `json:"subreddit"`
	Author        string  `json:"author"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	LinkFlairText string  `json:"link_flair_text"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	CreatedUTC    float64 `json:"created_utc"`
}

func (l link) toPost() domain.Post {
	permalink := l.Permalink
	if permalink != "" {
		permalink = "https://www.reddit.com" + permalink
	}
	return domain.Post{
		ID:          l.ID,
		Title:       l.Title,
		Body:        l.Selftext,
		Community:   l.Subreddit,
		Author:      l.Author,
		URL:         l.URL,
		Permalink:   permalink,
		Flair:       l.LinkFlairText,
		Score:       l.Score,
		UpvoteRatio: l.UpvoteRatio,
		NumComments: l.NumComments,
		CreatedAt:   time.Unix(int64(l.CreatedUTC), 0).UTC(),
	}
}

// subreddit is the subset of a t5 (community) object we read.
type subreddit struct {
	DisplayName string `json:"display_name"`
}

// fetchListing pages through path until limit items are collected or the
// listing ends.
func fetchListing[T any](ctx context.Context, c *Client, path string, query url.Values, limit int) ([]T, error) {
	if limit <= 0 {
		return []T{}, nil
	}

	out := make([]T, 0, min(limit, MaxPageSize))
	after := ""
	for len(out) < limit {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(min(MaxPageSize, limit-len(out))))
		if after != "" {
			q.Set("after", after)
		}

		var page listing[T]
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			return nil, err
		}
		for _, child := range page.Data.Children {
			out = append(out, child.Data)
		}

		after = page.Data.After
		if after == "" || len(page.Data.Children) == 0 {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
