package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
)

// RunDiscovery runs req behind the progress view and returns its outcome.
// Quitting before the run ends cancels it; the partial result is returned
// with the cancellation error.
func RunDiscovery(
	ctx context.Context, svc driving.DiscoveryService, req domain.DiscoveryRequest,
) (*domain.DiscoveryResult, error) {
	app, err := NewApp(&Ports{Discovery: svc}, req)
	if err != nil {
		return nil, err
	}
	app.WithContext(ctx)
	defer app.Cancel()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	app.Cancel()
	result, err := app.Wait()
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return result, fmt.Errorf("TUI error: %w", runErr)
	}
	return result, err
}
