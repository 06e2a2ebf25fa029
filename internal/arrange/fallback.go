package arrange

import (
	"slices"

	"github.com/roach88/stanza/internal/poem"
)

// group holds the records sharing one category key.
// The empty key is the implicit uncategorized group.
type group struct {
	key     string
	members []*poem.Record
}

func (g *group) label() string {
	if g.key == "" {
		return poem.Uncategorized
	}
	return g.members[0].Category
}

// groupByCategory partitions records by category key and orders the
// groups by descending size. Equal-size groups keep the order in which
// their first member appears, so the result is deterministic for a given
// input order.
func groupByCategory(records []*poem.Record) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, r := range records {
		key := r.CategoryKey()
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, r)
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		return len(b.members) - len(a.members)
	})
	return groups
}

// roundRobin sweeps the groups in order, taking the front member of every
// non-empty group per round, until all groups are drained. Groups are not
// modified.
func roundRobin(groups []*group, n int) []*poem.Record {
	out := make([]*poem.Record, 0, n)
	for round := 0; len(out) < n; round++ {
		for _, g := range groups {
			if round < len(g.members) {
				out = append(out, g.members[round])
			}
		}
	}
	return out
}

// repair walks left to right. Where a record repeats the category of its
// predecessor, it is swapped with the first later record of a different
// category. When every later record shares the category the pair is left
// in place.
func repair(records []*poem.Record) {
	for i := 1; i < len(records); i++ {
		if !poem.SameCategory(records[i-1], records[i]) {
			continue
		}
		key := records[i].CategoryKey()
		j := i + 1
		for j < len(records) && records[j].CategoryKey() == key {
			j++
		}
		if j < len(records) {
			records[i], records[j] = records[j], records[i]
		}
	}
}

// interleave lays the ordered groups out slot by slot. groups must be
// sorted by descending size.
//
// When the largest group fits in the even slots (feasible), groups are
// written back to back into positions 0, 2, 4, ... then 1, 3, 5, ...
// A group that wraps from even to odd slots is never larger than the
// first group, so it cannot meet itself.
//
// Otherwise the dominant group alternates with the remaining records and
// its surplus trails at the end, which leaves exactly 2c-n-1 pairs.
func interleave(groups []*group, n int) []*poem.Record {
	out := make([]*poem.Record, n)
	if n == 0 {
		return out
	}

	dominant := groups[0].members
	if len(dominant) <= (n+1)/2 {
		pos := 0
		for _, g := range groups {
			for _, r := range g.members {
				out[pos] = r
				pos += 2
				if pos >= n {
					pos = 1
				}
			}
		}
		return out
	}

	others := make([]*poem.Record, 0, n-len(dominant))
	for _, g := range groups[1:] {
		others = append(others, g.members...)
	}

	pos := 0
	for i, r := range dominant {
		out[pos] = r
		pos++
		if i < len(others) {
			out[pos] = others[i]
			pos++
		}
	}
	return out
}
