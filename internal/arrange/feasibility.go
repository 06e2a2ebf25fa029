package arrange

import "github.com/roach88/stanza/internal/poem"

// CategoryCount is the size of one category group.
type CategoryCount struct {
	Category string `json:"category"` // display label, poem.Uncategorized for the implicit group
	Count    int    `json:"count"`
}

// Feasibility describes how well a collection can be arranged.
type Feasibility struct {
	N             int             `json:"n"`
	Dominant      string          `json:"dominant,omitempty"` // largest non-empty category, "" if none
	DominantCount int             `json:"dominant_count"`
	Threshold     int             `json:"threshold"` // ceil(n/2)
	Feasible      bool            `json:"feasible"`
	Minimum       int             `json:"minimum"` // adjacent pairs forced by pigeonhole
	Categories    []CategoryCount `json:"categories"`
}

// Analyze computes the feasibility of arranging records with no adjacent
// same-category pair. It only reads the records.
//
// Categories are listed in the fallback group order: descending count,
// ties in first-seen order.
func Analyze(records []*poem.Record) Feasibility {
	n := len(records)
	groups := groupByCategory(records)

	f := Feasibility{
		N:          n,
		Threshold:  (n + 1) / 2,
		Categories: make([]CategoryCount, 0, len(groups)),
	}

	for _, g := range groups {
		f.Categories = append(f.Categories, CategoryCount{
			Category: g.label(),
			Count:    len(g.members),
		})
		if g.key != "" && len(g.members) > f.DominantCount {
			f.Dominant = g.label()
			f.DominantCount = len(g.members)
		}
	}

	f.Minimum = minimumAdjacent(n, f.DominantCount)
	f.Feasible = f.Minimum == 0
	return f
}

// minimumAdjacent returns the fewest adjacent pairs any order of n records
// can have when the largest category holds c of them. The other n-c
// records can split the c records into at most n-c+1 runs.
func minimumAdjacent(n, c int) int {
	forced := 2*c - n - 1
	if forced < 0 {
		return 0
	}
	return forced
}
