package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or replaces a run.
func (s *runStore) Save(ctx context.Context, result domain.DiscoveryResult) error {
	if result.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling run: %w", err)
	}
	summary := result.Summary()

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, mode, primary_keyword, accepted_count, supplemental_count,
			started_at, finished_at, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			mode = excluded.mode,
			primary_keyword = excluded.primary_keyword,
			accepted_count = excluded.accepted_count,
			supplemental_count = excluded.supplemental_count,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			result = excluded.result
	`, summary.RunID, string(summary.Mode), summary.PrimaryKeyword, summary.AcceptedCount,
		summary.SupplementalCount, unixNano(summary.StartedAt), unixNano(summary.FinishedAt),
		string(resultJSON))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, runID string) (*domain.DiscoveryResult, error) {
	var resultJSON string
	err := s.store.db.QueryRowContext(ctx, "SELECT result FROM runs WHERE run_id = ?", runID).
		Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	var result domain.DiscoveryResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling run: %w", err)
	}
	return &result, nil
}

// List returns run summaries, newest first.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT run_id, mode, primary_keyword, accepted_count, supplemental_count,
			started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, run_id ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0)
	for rows.Next() {
		var summary domain.RunSummary
		var mode string
		var started, finished int64
		if err := rows.Scan(&summary.RunID, &mode, &summary.PrimaryKeyword, &summary.AcceptedCount,
			&summary.SupplementalCount, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		summary.Mode = domain.WorkflowMode(mode)
		summary.StartedAt = fromUnixNano(started)
		summary.FinishedAt = fromUnixNano(finished)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a run.
func (s *runStore) Delete(ctx context.Context, runID string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
