package domain

// TermCount pairs a term with its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// CommunityProfile summarises the writing style of a community's top posts.
type CommunityProfile struct {
	Community string `json:"community"`

	// PostCount is the number of posts analysed.
	PostCount int `json:"post_count"`

	// AvgTitleWords is the mean title length in words across non-empty titles.
	AvgTitleWords float64 `json:"avg_title_words"`

	// AvgBodyWords is the mean body length in words across non-empty bodies.
	AvgBodyWords float64 `json:"avg_body_words"`

	// TopWords are the most frequent alphabetic title words, stop words excluded.
	TopWords []TermCount `json:"top_words"`

	// TopBigrams are the most frequent adjacent title token pairs.
	TopBigrams []TermCount `json:"top_bigrams"`

	// QuestionTitles counts titles containing a question mark.
	QuestionTitles int `json:"question_titles"`

	// BulletBodies counts bodies containing a bullet-point line.
	BulletBodies int `json:"bullet_bodies"`
}
