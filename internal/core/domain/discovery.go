package domain

import (
	"fmt"
	"time"
)

// DiscoveryRequest is the immutable run configuration for one discovery.
type DiscoveryRequest struct {
	// Mode selects the keyword workflow.
	Mode WorkflowMode `json:"mode"`

	// Keywords seeds the manual workflow.
	Keywords []string `json:"keywords,omitempty"`

	// Brand seeds the brand_context and auto_keywords workflows.
	Brand BrandContext `json:"brand"`

	// DesiredCount caps the number of accepted communities (default 20).
	DesiredCount int `json:"desired_count"`

	// RelatedCount caps the supplemental list (default 20). A negative value
	// disables the related-community lookup.
	RelatedCount int `json:"related_count"`

	// Thresholds overrides the mode's reference thresholds when set.
	Thresholds *RelevanceThresholds `json:"thresholds,omitempty"`
}

// Normalised returns a copy with defaults applied for unset counts.
func (r DiscoveryRequest) Normalised() DiscoveryRequest {
	if r.DesiredCount <= 0 {
		r.DesiredCount = DefaultDesiredCount
	}
	switch {
	case r.RelatedCount == 0:
		r.RelatedCount = DefaultRelatedCount
	case r.RelatedCount < 0:
		r.RelatedCount = 0
	}
	return r
}

// EffectiveThresholds returns the override if present, else the mode's reference thresholds.
func (r DiscoveryRequest) EffectiveThresholds() RelevanceThresholds {
	if r.Thresholds != nil {
		return *r.Thresholds
	}
	return r.Mode.Thresholds()
}

// Validate checks the request before any collaborator is called.
func (r DiscoveryRequest) Validate() error {
	if !r.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidWorkflow, r.Mode)
	}
	if r.Thresholds != nil {
		if err := r.Thresholds.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SkipCounts records collaborator failures that were contained during a run.
type SkipCounts struct {
	// Keywords counts keyword searches that failed.
	Keywords int `json:"keywords"`

	// Candidates counts communities whose posts could not be sampled.
	Candidates int `json:"candidates"`

	// Posts counts sampled posts whose semantic check failed.
	Posts int `json:"posts"`

	// Lookups counts failed related-community lookups.
	Lookups int `json:"lookups"`

	// Embeddings counts failed keyword or vocabulary embedding calls.
	Embeddings int `json:"embeddings"`
}

// Total returns the sum of all skipped items.
func (s SkipCounts) Total() int {
	return s.Keywords + s.Candidates + s.Posts + s.Lookups + s.Embeddings
}

// DiscoveryResult is the outcome of one discovery run.
type DiscoveryResult struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	Mode       WorkflowMode        `json:"mode"`
	Keywords   []string            `json:"keywords"`
	Thresholds RelevanceThresholds `json:"thresholds"`

	// Accepted lists communities that passed the relevance check, in candidate order.
	Accepted []string `json:"accepted"`

	// Supplemental lists related communities from the lookup, in lookup order.
	// It never overlaps Accepted.
	Supplemental []string `json:"supplemental"`

	// Candidates holds every scored candidate, in scoring order.
	Candidates []CandidateCommunity `json:"candidates"`

	// CandidateCount is the number of unique candidates surfaced by search.
	CandidateCount int `json:"candidate_count"`

	// PostCount is the number of unique posts fetched for the keyword set.
	PostCount int `json:"post_count"`

	Skipped    SkipCounts `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration returns how long the run took.
func (r DiscoveryResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunSummary is a compact listing entry for stored runs.
type RunSummary struct {
	RunID             string       `json:"run_id"`
	Mode              WorkflowMode `json:"mode"`
	PrimaryKeyword    string       `json:"primary_keyword"`
	AcceptedCount     int          `json:"accepted_count"`
	SupplementalCount int          `json:"supplemental_count"`
	StartedAt         time.Time    `json:"started_at"`
	FinishedAt        time.Time    `json:"finished_at"`
}

// Summary builds the listing entry for the result.
func (r DiscoveryResult) Summary() RunSummary {
	primary := ""
	if len(r.Keywords) > 0 {
		primary = r.Keywords[0]
	}
	return RunSummary{
		RunID:             r.RunID,
		Mode:              r.Mode,
		PrimaryKeyword:    primary,
		AcceptedCount:     len(r.Accepted),
		SupplementalCount: len(r.Supplemental),
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
	}
}
