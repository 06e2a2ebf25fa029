package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, source, record_count, phase, attempts, adjacent, minimum, seed, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ListRuns returns journaled runs newest first, without entries.
// A limit <= 0 returns every run.
//
// Returns empty slice (not nil) if the journal is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run whose id equals idOrPrefix, or the single run
// whose id starts with it, together with its entries in position order.
//
// Returns ErrRunNotFound when nothing matches and ErrAmbiguousRun when the
// prefix matches more than one run.
func (s *Store) ReadRun(ctx context.Context, idOrPrefix string) (Run, error) {
	id, err := s.resolveRunID(ctx, idOrPrefix)
	if err != nil {
		return Run{}, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("read run %s: %w", idOrPrefix, ErrRunNotFound)
		}
		return Run{}, err
	}

	run.Entries, err = s.readEntries(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// LatestRun returns the most recently journaled run with its entries.
// Returns ErrRunNotFound if the journal is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return s.ReadRun(ctx, id)
}

// RunsContaining returns the ids of runs that journaled a record with the
// given fingerprint, oldest first.
func (s *Store) RunsContaining(ctx context.Context, fingerprint string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.seq
		FROM run_entries e
		JOIN runs r ON r.id = e.run_id
		WHERE e.fingerprint = ?
		ORDER BY r.seq ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query runs by fingerprint: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		var seq int64
		if err := rows.Scan(&id, &seq); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs by fingerprint: %w", err)
	}
	return ids, nil
}

// resolveRunID expands a unique id prefix to a full run id.
func (s *Store) resolveRunID(ctx context.Context, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("read run: empty id: %w", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs
		WHERE substr(id, 1, length(?)) = ?
		ORDER BY seq ASC
	`, idOrPrefix, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}

	switch {
	case len(ids) == 0:
		return "", fmt.Errorf("read run %s: %w", idOrPrefix, ErrRunNotFound)
	case len(ids) > 1:
		// An exact match wins over longer ids sharing the prefix.
		for _, id := range ids {
			if id == idOrPrefix {
				return id, nil
			}
		}
		return "", fmt.Errorf("read run %s: %w", idOrPrefix, ErrAmbiguousRun)
	}
	return ids[0], nil
}

// readEntries returns a run's entries in position order.
func (s *Store) readEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, fingerprint, category, title, body
		FROM run_entries
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Position, &e.Fingerprint, &e.Category, &e.Title, &e.Body); err != nil {
			return nil, fmt.Errorf("scan run entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run entries: %w", err)
	}
	return entries, nil
}

// scanRun scans one runs row.
func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		createdAt string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Source,
		&run.RecordCount,
		&run.Phase,
		&run.Attempts,
		&run.Adjacent,
		&run.Minimum,
		&run.Seed,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}
