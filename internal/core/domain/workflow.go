package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// WorkflowMode selects how seed keywords are produced for a discovery run.
// It is chosen once at the start of a run and never changes mid-run.
type WorkflowMode string

// Available workflow modes.
const (
	// WorkflowManual expands an explicit keyword list by embedding neighbourhood.
	WorkflowManual WorkflowMode = "manual"

	// WorkflowBrandContext splits a BrandContext into base terms, then expands
	// them by embedding neighbourhood.
	WorkflowBrandContext WorkflowMode = "brand_context"

	// WorkflowAutoKeywords generates keywords from a BrandContext without
	// embedding lookups and scores with stricter semantic agreement.
	WorkflowAutoKeywords WorkflowMode = "auto_keywords"
)

// Reference run sizes.
const (
	DefaultDesiredCount = 20
	DefaultRelatedCount = 20
)

// ParseWorkflowMode converts user input into a WorkflowMode.
// Matching is case-insensitive and accepts dashes in place of underscores.
func ParseWorkflowMode(s string) (WorkflowMode, error) {
	m := WorkflowMode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q (valid modes: manual, brand_context, auto_keywords)",
			ErrInvalidWorkflow, s)
	}
	return m, nil
}

// IsValid returns true if the workflow mode is recognised.
func (m WorkflowMode) IsValid() bool {
	switch m {
	case WorkflowManual, WorkflowBrandContext, WorkflowAutoKeywords:
		return true
	default:
		return false
	}
}

// UsesEmbeddingExpansion returns true if keywords are expanded via embedding neighbourhood.
func (m WorkflowMode) UsesEmbeddingExpansion() bool {
	return m == WorkflowManual || m == WorkflowBrandContext
}

// RequiresBrand returns true if the mode is seeded from a BrandContext.
func (m WorkflowMode) RequiresBrand() bool {
	return m == WorkflowBrandContext || m == WorkflowAutoKeywords
}

// Thresholds returns the reference thresholds for this mode.
func (m WorkflowMode) Thresholds() RelevanceThresholds {
	if m == WorkflowAutoKeywords {
		return StrictThresholds()
	}
	return DefaultThresholds()
}

// String returns the string representation.
func (m WorkflowMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m WorkflowMode) Description() string {
	switch m {
	case WorkflowManual:
		return "Manual keywords with embedding expansion"
	case WorkflowBrandContext:
		return "Brand context with embedding expansion"
	case WorkflowAutoKeywords:
		return "Auto-generated keywords from brand context (strict semantics)"
	default:
		return unknownDescription
	}
}
