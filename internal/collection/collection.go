// Package collection loads and persists a poem collection file: a JSON
// array of poem objects.
//
// Save rewrites the whole file through a temporary file in the same
// directory followed by a rename, so readers see either the old or the
// new collection.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/stanza/internal/poem"
)

// Loader supplies a collection.
type Loader interface {
	Load(ctx context.Context) ([]*poem.Record, error)
}

// Persister replaces a collection.
type Persister interface {
	Save(ctx context.Context, records []*poem.Record) error
}

// File is a collection stored as a JSON file at Path.
// It implements Loader and Persister.
type File struct {
	Path string
}

// Load reads the collection at f.Path.
func (f File) Load(ctx context.Context) ([]*poem.Record, error) {
	return Load(ctx, f.Path)
}

// Save replaces the collection at f.Path.
func (f File) Save(ctx context.Context, records []*poem.Record) error {
	return Save(ctx, f.Path, records)
}

// Load reads a JSON array of poem objects from path.
// Returns an empty slice (not nil) for an empty array.
func Load(ctx context.Context, path string) ([]*poem.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", path, err)
	}
	return records, nil
}

// Decode parses a JSON array of poem objects.
func Decode(data []byte) ([]*poem.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("collection must be a JSON array: %w", err)
	}

	records := make([]*poem.Record, 0, len(raw))
	for i, elem := range raw {
		r := &poem.Record{}
		if err := json.Unmarshal(elem, r); err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Encode renders records as a 2-space indented JSON array with a trailing
// newline. HTML characters are not escaped.
func Encode(records []*poem.Record) ([]byte, error) {
	if records == nil {
		records = []*poem.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes records to path, replacing any previous contents.
// The existing file mode is kept; new files are created 0644.
func Save(ctx context.Context, path string, records []*poem.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(records)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}
