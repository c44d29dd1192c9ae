package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// Profile defaults.
const (
	DefaultProfilePosts = 100
	profileTopTerms     = 10
)

var bulletLine = regexp.MustCompile(`(?m)^\s*[-*]`)

// stopWords are common English function words left out of TopWords.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be
		because been before being below between both but by can could did do does doing down during each
		few for from further had has have having he her here hers herself him himself his how i if in into
		is it its itself just me more most my myself no nor not now of off on once only or other our ours
		ourselves out over own same she should so some such than that the their theirs them themselves then
		there these they this those through to too under until up very was we were what when where which
		while who whom why will with would you your yours yourself yourselves`) {
		stopWords[w] = struct{}{}
	}
}

// ProfileService summarises how a community writes its most popular posts.
type ProfileService struct {
	source driven.PostSource
}

// NewProfileService creates a new profile service.
func NewProfileService(source driven.PostSource) *ProfileService {
	return &ProfileService{source: source}
}

// Profile analyses up to limit top posts of the community for the period.
func (s *ProfileService) Profile(
	ctx context.Context, community string, period domain.TimeFilter, limit int,
) (*domain.CommunityProfile, error) {
	community, posts, err := s.topPosts(ctx, community, period, limit)
	if err != nil {
		return nil, err
	}
	logger.Debug("Profiling %s from %d posts", community, len(posts))

	return AnalyseStyle(community, posts), nil
}

// Scrape returns up to limit top posts of the community with up to
// commentLimit comments each. A post whose comments fail to load is kept
// without them. On cancellation the posts gathered so far are returned
// together with the context error.
func (s *ProfileService) Scrape(
	ctx context.Context, community string, period domain.TimeFilter, limit, commentLimit int,
) ([]domain.Post, error) {
	community, posts, err := s.topPosts(ctx, community, period, limit)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if err := ctx.Err(); err != nil {
			return posts[:i], err
		}
		comments, err := s.source.Comments(ctx, posts[i].ID, commentLimit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return posts[:i], ctxErr
			}
			logger.Warn("Comments for post %s: %v", posts[i].ID, err)
			continue
		}
		posts[i].Comments = comments
	}
	logger.Debug("Scraped %d posts from %s", len(posts), community)
	return posts, nil
}

// topPosts validates the request and fetches the top posts of the
// community, returning its normalised name.
func (s *ProfileService) topPosts(
	ctx context.Context, community string, period domain.TimeFilter, limit int,
) (string, []domain.Post, error) {
	community = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(community), "r/"))
	if community == "" {
		return "", nil, fmt.Errorf("%w: community is required", domain.ErrInvalidInput)
	}
	if period == "" {
		period = domain.TimeFilterYear
	}
	if !period.IsValid() {
		return "", nil, fmt.Errorf("%w: invalid time filter %q", domain.ErrInvalidInput, period)
	}
	if limit <= 0 {
		limit = DefaultProfilePosts
	}

	posts, err := s.source.TopPosts(ctx, community, period, limit)
	if err != nil {
		return "", nil, fmt.Errorf("top posts for %s: %w", community, err)
	}
	return community, posts, nil
}

// AnalyseStyle computes style statistics over posts.
func AnalyseStyle(community string, posts []domain.Post) *domain.CommunityProfile {
	profile := &domain.CommunityProfile{
		Community:  community,
		PostCount:  len(posts),
		TopWords:   []domain.TermCount{},
		TopBigrams: []domain.TermCount{},
	}
	if len(posts) == 0 {
		return profile
	}

	words := make(map[string]int)
	bigrams := make(map[string]int)
	var titleWords, bodyWords int

	for _, post := range posts {
		titleWords += len(strings.Fields(post.Title))
		bodyWords += len(strings.Fields(post.Body))
		if strings.Contains(post.Title, "?") {
			profile.QuestionTitles++
		}
		if bulletLine.MatchString(post.Body) {
			profile.BulletBodies++
		}

		tokens := tokenize(post.Title)
		for i, tok := range tokens {
			if i > 0 {
				bigrams[tokens[i-1]+" "+tok]++
			}
			if _, stop := stopWords[tok]; stop || !isAlpha(tok) {
				continue
			}
			words[tok]++
		}
	}

	// Empty bodies count as zero words, so link posts pull the average down.
	profile.AvgTitleWords = float64(titleWords) / float64(len(posts))
	profile.AvgBodyWords = float64(bodyWords) / float64(len(posts))
	profile.TopWords = topTerms(words, profileTopTerms)
	profile.TopBigrams = topTerms(bigrams, profileTopTerms)
	return profile
}

// tokenize lower-cases s and splits it into word tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// topTerms returns the n most frequent terms, ties broken alphabetically.
func topTerms(counts map[string]int, n int) []domain.TermCount {
	terms := make([]domain.TermCount, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, domain.TermCount{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
