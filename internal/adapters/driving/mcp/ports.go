package mcp

import (
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Discovery runs discovery and keyword expansion.
	Discovery driving.DiscoveryService

	// Settings supplies the configured run defaults. Each tool call reads
	// them afresh, so edits to the config file apply to the next run.
	Settings driving.SettingsService

	// Runs exposes stored discovery runs as resources.
	Runs driving.RunHistoryService

	// Profile summarises a community's posting style.
	Profile driving.ProfileService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Discovery == nil {
		return ErrMissingDiscoveryService
	}
	// Settings, Runs and Profile are optional
	return nil
}
