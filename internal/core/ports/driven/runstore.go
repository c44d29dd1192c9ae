package driven

import (
	"context"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// RunStore persists discovery results.
type RunStore interface {
	// Save stores a result, replacing any run with the same ID.
	Save(ctx context.Context, result domain.DiscoveryResult) error

	// Get retrieves a run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, runID string) (*domain.DiscoveryResult, error)

	// List returns summaries of the most recent runs, newest first.
	// A limit of zero or less returns every run.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Delete removes a run. Returns domain.ErrNotFound if no run has the ID.
	Delete(ctx context.Context, runID string) error
}

// DiscoveryObserver receives progress events from a running discovery.
// Implementations must not block for long. Events are delivered one at a
// time, though not always from the goroutine that called Discover.
type DiscoveryObserver interface {
	OnEvent(event domain.DiscoveryEvent)
}

// ObserverFunc adapts a function to DiscoveryObserver.
type ObserverFunc func(event domain.DiscoveryEvent)

// OnEvent calls f(event).
func (f ObserverFunc) OnEvent(event domain.DiscoveryEvent) {
	f(event)
}
