package arrange

import (
	"log/slog"

	"github.com/roach88/stanza/internal/poem"
)

// DefaultMaxAttempts is the Phase 1 shuffle budget used when
// Options.MaxAttempts is zero.
const DefaultMaxAttempts = 2000

// Phase names the strategy that produced a Result.
type Phase string

const (
	PhaseShuffle    Phase = "shuffle"     // Phase 1 found a clean permutation
	PhaseRoundRobin Phase = "round-robin" // Phase 2 round-robin + local repair
	PhaseInterleave Phase = "interleave"  // Phase 2 slot interleave beat the repair pass
)

// Options tunes Arrange. The zero value is ready to use.
type Options struct {
	// MaxAttempts bounds Phase 1. Zero or negative means DefaultMaxAttempts.
	MaxAttempts int

	// RepairOnly stops Phase 2 after round-robin and local repair, skipping
	// the interleave pass.
	RepairOnly bool

	// Logger receives the Phase 1 exhaustion warning. Nil discards.
	Logger *slog.Logger
}

func (o Options) maxAttempts() int {
	if o.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return o.MaxAttempts
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Result is the outcome of Arrange.
type Result struct {
	// Records is the arranged sequence, ids renumbered 1..n.
	Records []*poem.Record

	Phase    Phase
	Attempts int // Phase 1 shuffles performed
	Adjacent int // adjacent same-category pairs left in Records
	Minimum  int // pairs forced by pigeonhole; Adjacent >= Minimum
}

// Degraded reports whether the result keeps adjacent same-category pairs.
func (r *Result) Degraded() bool {
	return r.Adjacent > 0
}

// Arrange returns a permutation of records in which no two adjacent
// records share a non-empty category, or the best order it could find
// when that is impossible. It never fails.
//
// The returned records are the same pointers as the input; only their
// ID fields are rewritten. The caller's slice keeps its order.
func Arrange(records []*poem.Record, rng RandomSource, opts Options) *Result {
	log := opts.logger()
	maxAttempts := opts.maxAttempts()

	work := make([]*poem.Record, len(records))
	copy(work, records)

	result := &Result{Phase: PhaseShuffle}
	accepted := false
	for result.Attempts < maxAttempts {
		result.Attempts++
		shuffle(work, rng)
		if !HasAdjacentDuplicate(work) {
			accepted = true
			break
		}
	}

	feas := Analyze(work)
	result.Minimum = feas.Minimum

	if !accepted {
		log.Warn("random shuffle failed to remove adjacent categories; falling back to round-robin",
			"attempts", result.Attempts,
			"records", len(work),
			"dominant", feas.Dominant,
			"dominant_count", feas.DominantCount,
			"feasible", feas.Feasible,
		)
		work, result.Phase = fallback(work, feas.Minimum, opts.RepairOnly)
	}

	Renumber(work)
	result.Records = work
	result.Adjacent = CountAdjacent(work)

	log.Debug("arrangement complete",
		"phase", result.Phase,
		"attempts", result.Attempts,
		"adjacent", result.Adjacent,
		"minimum", result.Minimum,
	)
	return result
}

// fallback runs Phase 2 over the last shuffled order.
func fallback(records []*poem.Record, minimum int, repairOnly bool) ([]*poem.Record, Phase) {
	groups := groupByCategory(records)

	candidate := roundRobin(groups, len(records))
	repair(candidate)

	pairs := CountAdjacent(candidate)
	if repairOnly || pairs <= minimum {
		return candidate, PhaseRoundRobin
	}

	alt := interleave(groups, len(records))
	if CountAdjacent(alt) < pairs {
		return alt, PhaseInterleave
	}
	return candidate, PhaseRoundRobin
}

// Renumber assigns id = position+1 to every record. Running it on an
// already sequential sequence changes nothing.
func Renumber(records []*poem.Record) {
	for i, r := range records {
		r.ID = int64(i + 1)
	}
}
