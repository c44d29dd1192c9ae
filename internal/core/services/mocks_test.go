package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

var errUpstream = errors.New("upstream failure")

// --- Mock implementations ---

// stubEmbedder implements driven.EmbeddingService with a fixed text-to-vector table.
// Unknown texts map to fallback.
type stubEmbedder struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	fallback  []float32
	embedErr  error
	batchErr  error
	failTexts map[string]bool

	embedCalls int
	batchCalls int
}

func newStubEmbedder(vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{
		vectors:  vectors,
		fallback: []float32{0, 0, 0, 1},
	}
}

func (m *stubEmbedder) lookup(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil || m.failTexts[text] {
		return nil, errUpstream
	}
	return m.lookup(text), nil
}

func (m *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.lookup(t)
	}
	return out, nil
}

func (m *stubEmbedder) Dimensions() int              { return len(m.fallback) }
func (m *stubEmbedder) ModelName() string            { return "stub" }
func (m *stubEmbedder) Ping(_ context.Context) error { return nil }
func (m *stubEmbedder) Close() error                 { return nil }

func (m *stubEmbedder) EmbedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls
}

// mockPostSource implements driven.PostSource for testing.
type mockPostSource struct {
	mu         sync.Mutex
	search     map[string][]domain.Post
	searchErrs map[string]error
	recent     map[string][]domain.Post
	recentErrs map[string]error
	top        []domain.Post
	topErr     error
	comments   map[string][]domain.Comment
	commentErr map[string]error

	searched    []string
	recentCalls []string
	lastLimit   int
	topPeriod   domain.TimeFilter
}

func newMockPostSource() *mockPostSource {
	return &mockPostSource{
		search:     make(map[string][]domain.Post),
		searchErrs: make(map[string]error),
		recent:     make(map[string][]domain.Post),
		recentErrs: make(map[string]error),
		comments:   make(map[string][]domain.Comment),
		commentErr: make(map[string]error),
	}
}

func (m *mockPostSource) Search(_ context.Context, keyword string, _ domain.SortMode, limit int) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searched = append(m.searched, keyword)
	m.lastLimit = limit
	if err := m.searchErrs[keyword]; err != nil {
		return nil, err
	}
	return m.search[keyword], nil
}

func (m *mockPostSource) RecentPosts(ctx context.Context, community string, limit int) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recentCalls = append(m.recentCalls, community)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.recentErrs[community]; err != nil {
		return nil, err
	}
	posts := m.recent[community]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *mockPostSource) TopPosts(_ context.Context, _ string, period domain.TimeFilter, limit int) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topPeriod = period
	m.lastLimit = limit
	if m.topErr != nil {
		return nil, m.topErr
	}
	return m.top, nil
}

func (m *mockPostSource) Comments(ctx context.Context, postID string, limit int) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.commentErr[postID]; err != nil {
		return nil, err
	}
	comments := m.comments[postID]
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (m *mockPostSource) RecentCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recentCalls...)
}

// mockLookup implements driven.CommunityLookup for testing.
type mockLookup struct {
	related []string
	err     error

	seed    string
	exclude []string
	max     int
}

func (m *mockLookup) RelatedTo(_ context.Context, seed string, exclude []string, maxResults int) ([]string, error) {
	m.seed = seed
	m.exclude = exclude
	m.max = maxResults
	if m.err != nil {
		return nil, m.err
	}
	return m.related, nil
}

// mockVocabulary implements driven.Vocabulary for testing.
type mockVocabulary struct {
	terms []string
	err   error
	calls int
}

func (m *mockVocabulary) Terms(_ context.Context) ([]string, error) {
	m.calls++
	return m.terms, m.err
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	runs    map[string]domain.DiscoveryResult
	saveErr error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{runs: make(map[string]domain.DiscoveryResult)}
}

func (m *mockRunStore) Save(_ context.Context, result domain.DiscoveryResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs[result.RunID] = result
	return nil
}

func (m *mockRunStore) Get(_ context.Context, runID string) (*domain.DiscoveryResult, error) {
	r, ok := m.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *mockRunStore) List(_ context.Context, _ int) ([]domain.RunSummary, error) {
	out := make([]domain.RunSummary, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.Summary())
	}
	return out, nil
}

func (m *mockRunStore) Delete(_ context.Context, runID string) error {
	if _, ok := m.runs[runID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.runs, runID)
	return nil
}

// Interface checks.
var (
	_ driven.EmbeddingService = (*stubEmbedder)(nil)
	_ driven.PostSource       = (*mockPostSource)(nil)
	_ driven.CommunityLookup  = (*mockLookup)(nil)
	_ driven.Vocabulary       = (*mockVocabulary)(nil)
	_ driven.RunStore         = (*mockRunStore)(nil)
)

// --- Helpers ---

func post(id, community, title, body string) domain.Post {
	return domain.Post{ID: id, Community: community, Title: title, Body: body}
}
