package arrange

import (
	"math/rand/v2"

	"github.com/roach88/stanza/internal/poem"
)

// RandomSource supplies uniform integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// seedStream decorrelates the two PCG state words derived from one seed.
// It is the SplitMix64 golden-ratio increment.
const seedStream uint64 = 0x9e3779b97f4a7c15

// NewSeeded returns a deterministic source: the same seed always yields
// the same sequence.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedStream))
}

// NewRandom returns a source seeded from the runtime's random state.
func NewRandom() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// shuffle performs an in-place Fisher–Yates shuffle: for each i from the
// last index down to 1, swap with a uniformly chosen j in [0, i].
//
// Complexity: O(n) time, O(1) extra space.
func shuffle(records []*poem.Record, rng RandomSource) {
	for i := len(records) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}
