package arrange

import "github.com/roach88/stanza/internal/poem"

// HasAdjacentDuplicate reports whether any two consecutive records share
// a non-empty category.
func HasAdjacentDuplicate(records []*poem.Record) bool {
	for i := 1; i < len(records); i++ {
		if poem.SameCategory(records[i-1], records[i]) {
			return true
		}
	}
	return false
}

// CountAdjacent returns the number of consecutive pairs sharing a
// non-empty category. A run of k equal records counts k-1 pairs.
func CountAdjacent(records []*poem.Record) int {
	count := 0
	for i := 1; i < len(records); i++ {
		if poem.SameCategory(records[i-1], records[i]) {
			count++
		}
	}
	return count
}
