package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(t, "0190a7e2-0000-7000-8000-000000000001", "Love", "Night", "Love")
	run.Phase = "interleave"
	run.Attempts = 2000
	run.Adjacent = 0
	run.Minimum = 0
	run.Seed = "42"
	_, _, err := s.WriteRun(ctx, run)
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "poems.json", got.Source)
	assert.Equal(t, 3, got.RecordCount)
	assert.Equal(t, "interleave", got.Phase)
	assert.Equal(t, 2000, got.Attempts)
	assert.Equal(t, "42", got.Seed)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	if diff := cmp.Diff(run.Entries, got.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRun_Prefix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc-111", "abc-222", "def-333"} {
		_, _, err := s.WriteRun(ctx, createTestRun(t, id, "Love"))
		require.NoError(t, err)
	}

	got, err := s.ReadRun(ctx, "def")
	require.NoError(t, err)
	assert.Equal(t, "def-333", got.ID)

	got, err = s.ReadRun(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-222", got.ID)

	_, err = s.ReadRun(ctx, "abc")
	assert.ErrorIs(t, err, ErrAmbiguousRun)

	_, err = s.ReadRun(ctx, "zzz")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.ReadRun(ctx, "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadRun_ExactMatchBeatsPrefix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run", "run-long"} {
		_, _, err := s.WriteRun(ctx, createTestRun(t, id, "Love"))
		require.NoError(t, err)
	}

	got, err := s.ReadRun(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, "run", got.ID)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		_, _, err := s.WriteRun(ctx, createTestRun(t, id, "Love", "Night"))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-1", runs[2].ID)
	assert.Nil(t, runs[0].Entries, "list does not load entries")

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestLatestRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, _, err = s.WriteRun(ctx, createTestRun(t, "run-1", "Love"))
	require.NoError(t, err)
	_, _, err = s.WriteRun(ctx, createTestRun(t, "run-2", "Sad", "Hope"))
	require.NoError(t, err)

	got, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.ID)
	assert.Len(t, got.Entries, 2)
}

func TestRunRecords(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, _, err := s.WriteRun(ctx, createTestRun(t, "run-1", "Love", "Night", ""))
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	records, err := got.Records()
	require.NoError(t, err)
	assert.Equal(t, []string{"poem-1", "poem-2", "poem-3"}, titles(records))
	assert.Equal(t, int64(3), records[2].ID)
	assert.False(t, records[2].Categorized())
}

func TestRunRecords_CorruptBody(t *testing.T) {
	run := Run{Entries: []Entry{{Position: 0, Body: "{not json"}}}

	_, err := run.Records()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal record")
}

func TestRunsContaining(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestRun(t, "run-1", "Love", "Night")
	second := createTestRun(t, "run-2", "Love")
	_, _, err := s.WriteRun(ctx, first)
	require.NoError(t, err)
	_, _, err = s.WriteRun(ctx, second)
	require.NoError(t, err)

	// poem-1/Love appears in both runs.
	ids, err := s.RunsContaining(ctx, first.Entries[0].Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2"}, ids)

	ids, err = s.RunsContaining(ctx, first.Entries[1].Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)

	ids, err = s.RunsContaining(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFormatParseTime(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 123, time.FixedZone("X", 3600))

	got, err := parseTime(formatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = parseTime("yesterday")
	assert.Error(t, err)
}
