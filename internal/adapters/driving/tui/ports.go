// Package tui provides an interactive terminal view of a running discovery.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Discovery runs the pipeline being displayed.
	Discovery driving.DiscoveryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	return nil
}
