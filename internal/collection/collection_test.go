package collection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stanza/internal/arrange"
	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/testutil"
)

func TestLoadFixture(t *testing.T) {
	records, err := Load(context.Background(), filepath.Join("testdata", "poems.json"))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"Rose", "Thorn", "Moon"}, testutil.Titles(records))
	assert.Equal(t, []string{"Love", "Love", "Night"}, testutil.Categories(records))
	assert.Equal(t, []int64{10, 11, 12}, testutil.IDs(records))
}

func TestArrangedCollectionGolden(t *testing.T) {
	records, err := Load(context.Background(), filepath.Join("testdata", "poems.json"))
	require.NoError(t, err)

	res := arrange.Arrange(records, testutil.NewZeroSource(), arrange.Options{})
	data, err := Encode(res.Records)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "arranged_collection", data)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "poems.json")

	in := testutil.Records("Love", "", "Night")
	require.NoError(t, Save(ctx, path, in))

	out, err := Load(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, testutil.Titles(in), testutil.Titles(out))
	assert.Equal(t, testutil.Categories(in), testutil.Categories(out))
	assert.Equal(t, testutil.IDs(in), testutil.IDs(out))
}

func TestSaveReplacesExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "poems.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1},{"id":2}]`), 0o600))

	require.NoError(t, Save(ctx, path, testutil.Records("Love")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"poem-1"`)
	assert.NotContains(t, string(data), `"id": 2`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "poems.json")

	require.NoError(t, Save(ctx, path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	records, err := Load(ctx, path)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "poems.json")

	err := Save(context.Background(), path, testutil.Records("Love"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write collection")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.json"), "read collection"},
		{"malformed", write("bad.json", `[{"id":1`), "must be a JSON array"},
		{"not an array", write("obj.json", `{"id":1}`), "must be a JSON array"},
		{"element not object", write("elem.json", `[{"id":1}, 3]`), "record[1]"},
		{"bad category", write("cat.json", `[{"id":1,"category":["x"]}]`), "category must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, filepath.Join("testdata", "poems.json"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	r := poem.New("Love", poem.F("content", "a & b"))
	r.ID = 1

	data, err := Encode([]*poem.Record{r})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a & b"`)
}

func TestFileImplementsInterfaces(t *testing.T) {
	var _ Loader = File{}
	var _ Persister = File{}

	ctx := context.Background()
	f := File{Path: filepath.Join(t.TempDir(), "poems.json")}
	require.NoError(t, f.Save(ctx, testutil.Records("Sad")))

	records, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sad"}, testutil.Categories(records))
}
