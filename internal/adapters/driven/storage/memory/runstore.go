package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.DiscoveryResult
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.DiscoveryResult),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, result domain.DiscoveryResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.RunID] = cloneResult(result)
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, runID string) (*domain.DiscoveryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := cloneResult(result)
	return &clone, nil
}

// List returns run summaries, newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.RunSummary, 0, len(s.runs))
	for _, result := range s.runs {
		summaries = append(summaries, result.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].StartedAt.Equal(summaries[j].StartedAt) {
			return summaries[i].RunID < summaries[j].RunID
		}
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete removes a run.
func (s *RunStore) Delete(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.runs, runID)
	return nil
}

func cloneResult(r domain.DiscoveryResult) domain.DiscoveryResult {
	r.Keywords = append([]string(nil), r.Keywords...)
	r.Accepted = append([]string(nil), r.Accepted...)
	r.Supplemental = append([]string(nil), r.Supplemental...)
	r.Candidates = append([]domain.CandidateCommunity(nil), r.Candidates...)
	return r
}
