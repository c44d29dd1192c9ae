package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

func TestProfile_Output(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.profile.profile = &domain.CommunityProfile{
		Community:      "espresso",
		PostCount:      42,
		AvgTitleWords:  7.5,
		AvgBodyWords:   80,
		TopWords:       []domain.TermCount{{Term: "grinder", Count: 12}},
		TopBigrams:     []domain.TermCount{{Term: "first shot", Count: 4}},
		QuestionTitles: 10,
		BulletBodies:   3,
	}

	out, err := executeCommand("profile", "espresso")
	require.NoError(t, err)
	assert.Contains(t, out, "r/espresso (42 top posts)")
	assert.Contains(t, out, "Average title: 7.5 words")
	assert.Contains(t, out, "Question titles: 10")
	assert.Contains(t, out, "Top title words:")
	assert.Contains(t, out, "grinder")
	assert.Contains(t, out, "first shot")

	assert.Equal(t, "espresso", ts.profile.community)
	assert.Equal(t, domain.TimeFilter("year"), ts.profile.period)
	assert.Equal(t, 100, ts.profile.limit)
}

func TestProfile_Flags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.profile.profile = &domain.CommunityProfile{Community: "chess"}

	out, err := executeCommand("profile", "chess", "--period", "month", "-n", "25", "--json")
	require.NoError(t, err)

	var got domain.CommunityProfile
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "chess", got.Community)
	assert.Equal(t, domain.TimeFilter("month"), ts.profile.period)
	assert.Equal(t, 25, ts.profile.limit)
}

func TestProfile_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.profile.err = errors.New("forbidden")

	_, err := executeCommand("profile", "private")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile failed: forbidden")
}

func TestProfile_RequiresCommunity(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("profile")
	require.Error(t, err)
}

func TestProfile_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	profileService = nil

	_, err := executeCommand("profile", "chess")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile service not configured")
}

func TestProfile_Posts(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.profile.posts = []domain.Post{{
		ID:          "abc",
		Community:   "espresso",
		Title:       "Dialing in",
		UpvoteRatio: 0.97,
		Comments: []domain.Comment{
			{ID: "c1", ParentID: "t3_abc", Body: "grind finer", IsSubmitter: true},
		},
	}}

	out, err := executeCommand("profile", "espresso", "--posts", "--comments", "5", "-n", "10")
	require.NoError(t, err)

	var got []domain.Post
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Comments, 1)
	assert.Equal(t, "grind finer", got[0].Comments[0].Body)
	assert.True(t, got[0].Comments[0].IsSubmitter)
	assert.True(t, ts.profile.scraped)
	assert.Equal(t, 5, ts.profile.commentLimit)
	assert.Equal(t, 10, ts.profile.limit)
}

func TestProfile_PostsEmpty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("profile", "quiet", "--posts")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestProfile_PostsErrors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("profile", "espresso", "--posts", "--comments=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--comments must not be negative")
	assert.False(t, ts.profile.scraped)

	ts.profile.err = errors.New("forbidden")
	_, err = executeCommand("profile", "espresso", "--posts", "--comments", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrape failed: forbidden")
}
