package poem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalPreservesKeyOrder(t *testing.T) {
	data := []byte(`{"title":"Dusk","id":7,"author":"A. Poet","category":"Night","rating":4.5}`)

	var r Record
	require.NoError(t, json.Unmarshal(data, &r))

	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "Night", r.Category)
	assert.Equal(t, []string{"title", "id", "author", "category", "rating"}, r.Keys())

	r.ID = 1
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Dusk","id":1,"author":"A. Poet","category":"Night","rating":4.5}`, string(out))
}

func TestUnmarshalMissingCategory(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"absent", `{"id":1,"title":"x"}`},
		{"null", `{"id":1,"category":null}`},
		{"empty", `{"id":1,"category":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			require.NoError(t, json.Unmarshal([]byte(tt.data), &r))
			assert.False(t, r.Categorized())
			assert.Equal(t, "", r.CategoryKey())
			assert.Equal(t, Uncategorized, r.Label())
		})
	}
}

func TestUnmarshalRejectsNonStringCategory(t *testing.T) {
	for _, raw := range []string{`3`, `true`, `["Love"]`, `{"name":"Love"}`} {
		t.Run(raw, func(t *testing.T) {
			var r Record
			err := json.Unmarshal([]byte(`{"id":1,"category":`+raw+`}`), &r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "category must be a string")
		})
	}
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`["id",1]`), &r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON object")
}

func TestUnmarshalToleratesUntrustedID(t *testing.T) {
	for _, data := range []string{`{"id":"12"}`, `{"id":1.5}`, `{"id":null}`} {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(data), &r), data)
		assert.Equal(t, int64(0), r.ID, data)
	}
}

func TestMarshalAppendsMissingID(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &r))
	r.ID = 3

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x","id":3}`, string(out))
}

func TestMarshalEmptyRecord(t *testing.T) {
	r := Record{ID: 9}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":9}`, string(out))
}

func TestDuplicateKeyLastValueWins(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"category":"Love","title":"a","category":"Sad"}`), &r))

	assert.Equal(t, "Sad", r.Category)
	assert.Equal(t, []string{"category", "title", "id"}, r.Keys())
}

func TestNew(t *testing.T) {
	r := New("Love", F("title", "Rose"), F("id", 99), F("category", "ignored"))
	assert.Equal(t, "Love", r.Category)
	assert.Equal(t, "Rose", r.Title())
	assert.Equal(t, []string{"category", "title", "id"}, r.Keys())

	u := New("", F("title", "Plain"))
	assert.False(t, u.Categorized())
	assert.Equal(t, []string{"title", "id"}, u.Keys())
}

func TestSameCategory(t *testing.T) {
	composed := New("Caf\u00e9")
	decomposed := New("Cafe\u0301")
	other := New("Love")
	none := New("")

	assert.True(t, SameCategory(composed, decomposed))
	assert.False(t, SameCategory(composed, other))
	assert.False(t, SameCategory(none, New("")))
	assert.False(t, SameCategory(none, other))
}

func TestGet(t *testing.T) {
	r := New("Love", F("rating", 5))
	r.ID = 4

	raw, ok := r.Get("rating")
	require.True(t, ok)
	assert.Equal(t, "5", string(raw))

	raw, ok = r.Get("id")
	require.True(t, ok)
	assert.Equal(t, "4", string(raw))

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestTitleNonString(t *testing.T) {
	r := New("", F("title", 12))
	assert.Equal(t, "", r.Title())
}
