package testutil

import (
	"fmt"

	"github.com/roach88/stanza/internal/poem"
)

// Records builds one record per category, titled "poem-1", "poem-2", ...
// in input order, with ids set to their 1-based position. An empty
// category builds an uncategorized record.
func Records(categories ...string) []*poem.Record {
	records := make([]*poem.Record, len(categories))
	for i, c := range categories {
		r := poem.New(c, poem.F("title", fmt.Sprintf("poem-%d", i+1)))
		r.ID = int64(i + 1)
		records[i] = r
	}
	return records
}

// Repeat returns category repeated n times, for building skewed inputs.
func Repeat(category string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = category
	}
	return out
}

// Titles returns the title of every record in order.
func Titles(records []*poem.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title()
	}
	return out
}

// Categories returns the category of every record in order.
func Categories(records []*poem.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Category
	}
	return out
}

// IDs returns the id of every record in order.
func IDs(records []*poem.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
