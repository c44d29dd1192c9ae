package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

func TestAnalyseStyle(t *testing.T) {
	posts := []domain.Post{
		post("1", "sales", "How do you run cold outreach?", "- step one\n- step two"),
		post("2", "sales", "Cold outreach templates that work", "We tried many."),
		post("3", "sales", "Pipeline review", ""),
	}

	p := AnalyseStyle("sales", posts)

	assert.Equal(t, 3, p.PostCount)
	assert.InDelta(t, (6.0+5.0+2.0)/3.0, p.AvgTitleWords, 1e-9)
	assert.InDelta(t, (6.0+3.0+0.0)/3.0, p.AvgBodyWords, 1e-9)
	assert.Equal(t, 1, p.QuestionTitles)
	assert.Equal(t, 1, p.BulletBodies)

	require.NotEmpty(t, p.TopWords)
	assert.Equal(t, domain.TermCount{Term: "cold", Count: 2}, p.TopWords[0])
	assert.Equal(t, domain.TermCount{Term: "outreach", Count: 2}, p.TopWords[1])
	for _, tc := range p.TopWords {
		assert.NotEqual(t, "how", tc.Term, "stop words are excluded")
	}

	require.NotEmpty(t, p.TopBigrams)
	assert.Equal(t, domain.TermCount{Term: "cold outreach", Count: 2}, p.TopBigrams[0])
}

func TestAnalyseStyle_Empty(t *testing.T) {
	p := AnalyseStyle("ghost", nil)

	assert.Equal(t, 0, p.PostCount)
	assert.Zero(t, p.AvgTitleWords)
	assert.Empty(t, p.TopWords)
}

func TestProfileService_Profile(t *testing.T) {
	source := newMockPostSource()
	source.top = []domain.Post{post("1", "sales", "Hello world", "")}
	service := NewProfileService(source)

	p, err := service.Profile(context.Background(), "r/sales", "", 0)

	require.NoError(t, err)
	assert.Equal(t, "sales", p.Community)
	assert.Equal(t, domain.TimeFilterYear, source.topPeriod)
	assert.Equal(t, DefaultProfilePosts, source.lastLimit)
}

func TestProfileService_Profile_Errors(t *testing.T) {
	source := newMockPostSource()
	service := NewProfileService(source)

	_, err := service.Profile(context.Background(), "  ", domain.TimeFilterWeek, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Profile(context.Background(), "sales", "decade", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	source.topErr = domain.ErrNotFound
	_, err = service.Profile(context.Background(), "sales", domain.TimeFilterWeek, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyseStyle_EmptyBodiesCountTowardAverage(t *testing.T) {
	posts := []domain.Post{
		post("1", "sales", "One two", "four words in body"),
		post("2", "sales", "", ""),
	}

	p := AnalyseStyle("sales", posts)

	assert.InDelta(t, 1.0, p.AvgTitleWords, 1e-9)
	assert.InDelta(t, 2.0, p.AvgBodyWords, 1e-9)
}

func TestProfileService_Scrape(t *testing.T) {
	source := newMockPostSource()
	source.top = []domain.Post{
		post("a", "sales", "First", ""),
		post("b", "sales", "Second", ""),
		post("c", "sales", "Third", ""),
	}
	source.comments["a"] = []domain.Comment{
		{ID: "c1", ParentID: "t3_a", Body: "one"},
		{ID: "c2", ParentID: "t3_a", Body: "two"},
		{ID: "c3", ParentID: "t1_c1", Body: "three", Depth: 1},
	}
	source.commentErr["b"] = errUpstream
	service := NewProfileService(source)

	posts, err := service.Scrape(context.Background(), "r/sales", "", 0, 2)

	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, domain.TimeFilterYear, source.topPeriod)
	assert.Equal(t, DefaultProfilePosts, source.lastLimit)
	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, "c1", posts[0].Comments[0].ID)
	assert.Empty(t, posts[1].Comments, "failed comment fetch keeps the post")
	assert.Empty(t, posts[2].Comments)
}

func TestProfileService_Scrape_Cancelled(t *testing.T) {
	source := newMockPostSource()
	source.top = []domain.Post{post("a", "sales", "First", "")}
	service := NewProfileService(source)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts, err := service.Scrape(ctx, "sales", domain.TimeFilterMonth, 10, 0)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, posts)
}

func TestProfileService_Scrape_Errors(t *testing.T) {
	source := newMockPostSource()
	service := NewProfileService(source)

	_, err := service.Scrape(context.Background(), "", "", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	source.topErr = domain.ErrNotFound
	_, err = service.Scrape(context.Background(), "sales", "", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
