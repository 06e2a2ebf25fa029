package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/testutil"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run journaling the given categories in order.
func createTestRun(t *testing.T, id string, categories ...string) Run {
	t.Helper()
	records := testutil.Records(categories...)
	entries, err := EntriesFrom(records)
	if err != nil {
		t.Fatalf("EntriesFrom() failed: %v", err)
	}
	return Run{
		ID:          id,
		Source:      "poems.json",
		RecordCount: len(records),
		Phase:       "shuffle",
		Attempts:    1,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Entries:     entries,
	}
}

// titles returns the titles of records.
func titles(records []*poem.Record) []string {
	return testutil.Titles(records)
}
