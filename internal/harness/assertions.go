package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/stanza/internal/arrange"
	"github.com/roach88/stanza/internal/poem"
	"github.com/roach88/stanza/internal/testutil"
)

// AssertionError is returned when an assertion fails.
// It carries the arranged order to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Order    []string // Arranged order as "category:title"
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Order) > 0 {
		fmt.Fprintf(&buf, "\nOrder:\n")
		for i, entry := range e.Order {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, entry)
		}
	}
	return buf.String()
}

// evaluate dispatches one assertion.
func evaluate(a Assertion, r *Result) error {
	records := r.Arranged.Records
	fail := func(expected, actual string) error {
		return &AssertionError{
			Type:     a.Type,
			Expected: expected,
			Actual:   actual,
			Order:    describe(records),
		}
	}

	switch a.Type {
	case AssertPermutation:
		if !isPermutation(r.Input, records) {
			return fail("a permutation of the input", "records added, lost or duplicated")
		}
	case AssertSequentialIDs:
		for i, rec := range records {
			if rec.ID != int64(i+1) {
				return fail(fmt.Sprintf("id %d at position %d", i+1, i), fmt.Sprintf("id %d", rec.ID))
			}
		}
	case AssertNoAdjacent:
		if n := arrange.CountAdjacent(records); n != 0 {
			return fail("no adjacent same-category pairs", fmt.Sprintf("%d pair(s)", n))
		}
	case AssertAdjacentAtMinimum:
		if r.Arranged.Adjacent != r.Feasibility.Minimum {
			return fail(fmt.Sprintf("%d adjacent pair(s) (minimum)", r.Feasibility.Minimum),
				fmt.Sprintf("%d pair(s)", r.Arranged.Adjacent))
		}
	case AssertAdjacent:
		if r.Arranged.Adjacent != a.Count {
			return fail(fmt.Sprintf("%d adjacent pair(s)", a.Count), fmt.Sprintf("%d pair(s)", r.Arranged.Adjacent))
		}
	case AssertPhase:
		if string(r.Arranged.Phase) != a.Phase {
			return fail("phase "+a.Phase, "phase "+string(r.Arranged.Phase))
		}
	case AssertFeasible:
		if r.Feasibility.Feasible != a.Feasible {
			return fail(fmt.Sprintf("feasible=%v", a.Feasible), fmt.Sprintf("feasible=%v", r.Feasibility.Feasible))
		}
	case AssertOrder:
		titles := testutil.Titles(records)
		if !slices.Equal(titles, a.Titles) {
			return fail(fmt.Sprintf("order %v", a.Titles), fmt.Sprintf("order %v", titles))
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// isPermutation reports whether got holds exactly the records of want,
// compared by pointer identity.
func isPermutation(want, got []*poem.Record) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[*poem.Record]int, len(want))
	for _, r := range want {
		seen[r]++
	}
	for _, r := range got {
		if seen[r] == 0 {
			return false
		}
		seen[r]--
	}
	return true
}

// describe renders records as "category:title" for failure messages.
func describe(records []*poem.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label() + ":" + r.Title()
	}
	return out
}
