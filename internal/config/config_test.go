package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stanza/internal/arrange"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "stanza.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "data/poems.json", cfg.CollectionPath())
	assert.Equal(t, ".stanza/journal.db", cfg.Journal)
	assert.Equal(t, 500, cfg.MaxAttempts())
	assert.True(t, cfg.Arrange.RepairOnly)
	require.NotNil(t, cfg.Arrange.Seed)
	assert.Equal(t, uint64(42), *cfg.Arrange.Seed)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultCollection, cfg.CollectionPath())
	assert.Equal(t, arrange.DefaultMaxAttempts, cfg.MaxAttempts())
	assert.Empty(t, cfg.Journal)
	assert.False(t, cfg.Arrange.RepairOnly)
	assert.Nil(t, cfg.Arrange.Seed)
}

func TestParse_MinimalFileUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCollection, cfg.CollectionPath())
	assert.Equal(t, arrange.DefaultMaxAttempts, cfg.MaxAttempts())
	assert.Nil(t, cfg.Arrange.Seed)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		version bool
		wantMsg string
	}{
		{name: "missing version", input: "collection: a.json\n", version: true},
		{name: "wrong version", input: "version: 2\n", version: true},
		{name: "empty", input: "", version: true},
		{name: "unknown key", input: "version: 1\nshuffle: true\n", wantMsg: "parse config"},
		{name: "negative attempts", input: "version: 1\narrange:\n  max_attempts: -3\n", wantMsg: "max_attempts"},
		{name: "negative seed", input: "version: 1\narrange:\n  seed: -1\n", wantMsg: "parse config"},
		{name: "not yaml", input: "version: [1\n", wantMsg: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			if tt.version {
				assert.ErrorIs(t, err, ErrUnsupportedVersion)
				return
			}
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no implicit file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("implicit file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("version: 1\ncollection: poems.json\n"), 0o644))
		t.Chdir(dir)

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "poems.json", cfg.CollectionPath())
	})

	t.Run("implicit file is validated", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("version: 3\n"), 0o644))
		t.Chdir(dir)

		_, err := Resolve("")
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})
}
