package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run and its entries in one transaction.
// Returns the seq assigned to the run and whether a new record was inserted.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a run whose id
// already exists returns the existing seq and inserted=false without
// touching its entries.
func (s *Store) WriteRun(ctx context.Context, run Run) (seq int64, inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Logical clock: next seq after the highest journaled run
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, false, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, record_count, phase, attempts, adjacent, minimum, seed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.Source,
		run.RecordCount,
		run.Phase,
		run.Attempts,
		run.Adjacent,
		run.Minimum,
		run.Seed,
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return 0, false, fmt.Errorf("write run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
			return 0, false, fmt.Errorf("write run: existing seq: %w", err)
		}
		return seq, false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries
		(run_id, position, fingerprint, category, title, body)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, false, fmt.Errorf("write run entries: %w", err)
	}
	defer stmt.Close()

	for _, e := range run.Entries {
		if _, err := stmt.ExecContext(ctx, run.ID, e.Position, e.Fingerprint, e.Category, e.Title, e.Body); err != nil {
			return 0, false, fmt.Errorf("write run entry %d: %w", e.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, true, nil
}

// DeleteRun removes a run and its entries.
// Returns ErrRunNotFound if no run has the id.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
