package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecords(t *testing.T) {
	records := Records("Love", "", "Night")

	assert.Equal(t, []string{"poem-1", "poem-2", "poem-3"}, Titles(records))
	assert.Equal(t, []string{"Love", "", "Night"}, Categories(records))
	assert.Equal(t, []int64{1, 2, 3}, IDs(records))
	assert.False(t, records[1].Categorized())
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []string{"Sad", "Sad", "Sad"}, Repeat("Sad", 3))
	assert.Empty(t, Repeat("Sad", 0))
}
