package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
)

// Ensure RunHistoryService implements the interface.
var _ driving.RunHistoryService = (*RunHistoryService)(nil)

// RunHistoryService exposes persisted discovery runs.
type RunHistoryService struct {
	store driven.RunStore
}

// NewRunHistoryService creates a new run history service.
func NewRunHistoryService(store driven.RunStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// List returns summaries of recent runs, newest first.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return s.store.List(ctx, limit)
}

// Get returns a stored run by ID.
func (s *RunHistoryService) Get(ctx context.Context, runID string) (*domain.DiscoveryResult, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("%w: run ID is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, runID)
}

// Delete removes a stored run.
func (s *RunHistoryService) Delete(ctx context.Context, runID string) error {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("%w: run ID is required", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, runID)
}
