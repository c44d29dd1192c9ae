package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// comment is the subset of a t1 (comment) object we read.
type comment struct {
	ID          string  `json:"id"`
	ParentID    string  `json:"parent_id"`
	Body        string  `json:"body"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSubmitter bool    `json:"is_submitter"`
	Depth       int     `json:"depth"`

	// Replies is an empty string for leaf comments, otherwise a listing.
	Replies json.RawMessage `json:"replies"`
}

func (c comment) toComment() domain.Comment {
	return domain.Comment{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Body:        c.Body,
		Author:      c.Author,
		Score:       c.Score,
		CreatedAt:   time.Unix(int64(c.CreatedUTC), 0).UTC(),
		IsSubmitter: c.IsSubmitter,
		Depth:       c.Depth,
	}
}

// replies decodes the nested reply listing, keeping only t1 children.
func (c comment) replies() ([]comment, error) {
	raw := strings.TrimSpace(string(c.Replies))
	if raw == "" || raw == "null" || raw[0] == '"' {
		return nil, nil
	}
	var l listing[comment]
	if err := json.Unmarshal(c.Replies, &l); err != nil {
		return nil, fmt.Errorf("replies of %s: %w", c.ID, err)
	}
	return commentChildren(l), nil
}

// commentChildren drops "more" stubs, which only carry IDs of unloaded comments.
func commentChildren(l listing[comment]) []comment {
	out := make([]comment, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind == "t1" {
			out = append(out, child.Data)
		}
	}
	return out
}

// Comments returns the comment tree of a post flattened breadth-first.
// Collapsed "load more" branches are not expanded.
func (c *Client) Comments(ctx context.Context, postID string, limit int) ([]domain.Comment, error) {
	id := strings.TrimPrefix(strings.TrimSpace(postID), "t3_")
	if id == "" {
		return nil, fmt.Errorf("%w: post id is required", domain.ErrInvalidInput)
	}

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	// The response is [post listing, comment listing].
	var pages []json.RawMessage
	if err := c.getJSON(ctx, "/comments/"+url.PathEscape(id), q, &pages); err != nil {
		return nil, fmt.Errorf("comments of %s: %w", id, err)
	}
	if len(pages) < 2 {
		return []domain.Comment{}, nil
	}
	var top listing[comment]
	if err := json.Unmarshal(pages[1], &top); err != nil {
		return nil, fmt.Errorf("reddit: decode comments of %s: %w", id, err)
	}

	return flattenComments(commentChildren(top), limit)
}

// flattenComments walks the tree level by level, so a limit keeps the
// shallowest comments.
func flattenComments(queue []comment, limit int) ([]domain.Comment, error) {
	out := make([]domain.Comment, 0, len(queue))
	for len(queue) > 0 {
		if limit > 0 && len(out) >= limit {
			break
		}
		next := queue[0]
		queue = queue[1:]
		out = append(out, next.toComment())

		replies, err := next.replies()
		if err != nil {
			return nil, err
		}
		queue = append(queue, replies...)
	}
	return out, nil
}
