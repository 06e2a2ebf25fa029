package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/stanza/internal/poem"
)

// EntriesFrom converts an arranged order to journal entries.
func EntriesFrom(records []*poem.Record) ([]Entry, error) {
	entries := make([]Entry, len(records))
	for i, r := range records {
		body, err := marshalRecord(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		fp, err := r.Fingerprint()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = Entry{
			Position:    i,
			Fingerprint: fp,
			Category:    r.Category,
			Title:       r.Title(),
			Body:        body,
		}
	}
	return entries, nil
}

// Records decodes the journaled order back into records.
// Ids are set from entry positions.
func (r *Run) Records() ([]*poem.Record, error) {
	records := make([]*poem.Record, len(r.Entries))
	for i, e := range r.Entries {
		rec, err := unmarshalRecord(e.Body)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.Position, err)
		}
		rec.ID = int64(e.Position + 1)
		records[i] = rec
	}
	return records, nil
}

// marshalRecord converts a record to JSON TEXT for storage.
// HTML escaping is disabled so restored bodies match the collection bytes.
func marshalRecord(r *poem.Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalRecord parses JSON TEXT to a record.
func unmarshalRecord(data string) (*poem.Record, error) {
	rec := &poem.Record{}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// formatTime renders a timestamp for the created_at column.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a created_at column value.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}
