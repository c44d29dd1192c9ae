// Package messages defines Bubbletea message types for the TUI.
// Messages carry discovery progress from the running pipeline into the model.
package messages

import (
	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// DiscoveryEvent wraps a progress event emitted by the running discovery.
type DiscoveryEvent struct {
	Event domain.DiscoveryEvent
}

// DiscoveryFinished is sent once Discover has returned.
// Result may be partial when Err is a cancellation.
type DiscoveryFinished struct {
	Result *domain.DiscoveryResult
	Err    error
}

// StageLabel returns the human-readable label for a pipeline stage.
func StageLabel(stage domain.DiscoveryStage) string {
	switch stage {
	case domain.StageExpand:
		return "Expanding keywords"
	case domain.StageEmbed:
		return "Embedding keywords"
	case domain.StageFetch:
		return "Searching posts"
	case domain.StageScore:
		return "Checking communities"
	case domain.StageSupplement:
		return "Finding related communities"
	case domain.StageDone:
		return "Done"
	default:
		return "Starting"
	}
}
