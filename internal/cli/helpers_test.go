package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stanza/internal/collection"
	"github.com/roach88/stanza/internal/poem"
)

// sixPoems is a collection with three categories of two poems each,
// stored in its worst order.
const sixPoems = `[
  {"id": 1, "title": "Rose", "category": "Love"},
  {"id": 2, "title": "Thorn", "category": "Love"},
  {"id": 3, "title": "Moon", "category": "Night"},
  {"id": 4, "title": "Star", "category": "Night"},
  {"id": 5, "title": "Rain", "category": "Sad"},
  {"id": 6, "title": "Ash", "category": "Sad"}
]
`

// writeCollection writes content to name inside dir and returns the path.
func writeCollection(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// loadCollection reads a collection written by a command.
func loadCollection(t *testing.T, path string) []*poem.Record {
	t.Helper()
	records, err := collection.Load(context.Background(), path)
	require.NoError(t, err)
	return records
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// shuffleCommand builds a shuffle command with fixed run ids.
func shuffleCommand(format string, ids ...string) *cobra.Command {
	return newShuffleCommand(&ShuffleOptions{
		RootOptions: &RootOptions{Format: format},
		RunIDs:      NewFixedGenerator(ids...),
	})
}

// isolate runs the test from an empty directory so no stanza.yaml is
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}
