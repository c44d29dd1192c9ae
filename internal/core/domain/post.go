package domain

import "time"

// Post is a content item published in a community.
// Only ID, Text and Community are consumed by relevance scoring;
// the remaining fields are carried for profiles and output.
type Post struct {
	// ID uniquely identifies the post upstream. Deduplication keys on it.
	ID string `json:"id"`

	// Title is the post headline.
	Title string `json:"title"`

	// Body is the post self text. May be empty for link posts.
	Body string `json:"body"`

	// Community is the name of the community the post belongs to.
	Community string `json:"community"`

	Author      string    `json:"author,omitempty"`
	URL         string    `json:"url,omitempty"`
	Permalink   string    `json:"permalink,omitempty"`
	Flair       string    `json:"flair,omitempty"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio,omitempty"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`

	// Comments is only filled by community scrapes.
	Comments []Comment `json:"comments,omitempty"`
}

// Comment is a reply in a post's discussion tree.
type Comment struct {
	ID string `json:"id"`

	// ParentID is the fullname of the post (t3_) or comment (t1_) replied to.
	ParentID string `json:"parent_id"`

	Body        string    `json:"body"`
	Author      string    `json:"author"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	IsSubmitter bool      `json:"is_submitter"`

	// Depth is zero for top-level comments.
	Depth int `json:"depth"`
}

// Text returns the matchable text of the post: title and body joined by a space.
func (p Post) Text() string {
	return p.Title + " " + p.Body
}

// SortMode orders search results from the post source.
type SortMode string

// Available sort modes.
const (
	SortRelevance SortMode = "relevance"
	SortNew       SortMode = "new"
	SortTop       SortMode = "top"
)

// TimeFilter bounds top-post listings to a period.
type TimeFilter string

// Available time filters.
const (
	TimeFilterDay   TimeFilter = "day"
	TimeFilterWeek  TimeFilter = "week"
	TimeFilterMonth TimeFilter = "month"
	TimeFilterYear  TimeFilter = "year"
	TimeFilterAll   TimeFilter = "all"
)

// IsValid returns true if the time filter is recognised.
func (f TimeFilter) IsValid() bool {
	switch f {
	case TimeFilterDay, TimeFilterWeek, TimeFilterMonth, TimeFilterYear, TimeFilterAll:
		return true
	default:
		return false
	}
}
