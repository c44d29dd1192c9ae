package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWorkflow indicates an unrecognised workflow mode.
	// It is the only configuration error a discovery run surfaces,
	// and it is raised before any collaborator is called.
	ErrInvalidWorkflow = errors.New("invalid workflow mode")

	// Collaborator Errors.

	// ErrCollaboratorUnavailable indicates an external collaborator call failed.
	// Discovery treats it as "no result for this item" and keeps going.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrPostSourceUnavailable indicates the post source could not serve a request.
	ErrPostSourceUnavailable = fmt.Errorf("post source: %w", ErrCollaboratorUnavailable)

	// ErrEmbeddingUnavailable indicates the embedding provider failed or is not configured.
	// Callers fall back to lexical-only matching.
	ErrEmbeddingUnavailable = fmt.Errorf("embedding service: %w", ErrCollaboratorUnavailable)

	// ErrLookupUnavailable indicates the related-communities lookup failed.
	ErrLookupUnavailable = fmt.Errorf("community lookup: %w", ErrCollaboratorUnavailable)

	// Upstream Errors.

	// ErrAuthInvalid indicates the upstream credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the upstream rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
