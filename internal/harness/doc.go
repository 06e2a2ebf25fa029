// Package harness runs arrangement scenarios described in YAML.
//
// A scenario names a collection by its categories, the random source to
// arrange it with, and the assertions the arranged order must satisfy.
// Scenarios marked golden also snapshot the arranged order under
// testdata/golden.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	categories: [Love, Love, Night, ""]   # "" is uncategorized
//	random:
//	  script: [0]      # scripted draws, repeated; or
//	  seed: 42         # seeded PCG source
//	max_attempts: 2000
//	repair_only: false
//	golden: true
//	assertions:
//	  - type: no_adjacent
//	  - type: phase
//	    phase: round-robin
//	  - type: order
//	    titles: [poem-2, poem-3, poem-1]
//
// # Assertion Types
//
//   - permutation: output holds exactly the input records
//   - sequential_ids: ids are 1..n in order
//   - no_adjacent: no two neighbours share a non-empty category
//   - adjacent_at_minimum: adjacent pairs equal the pigeonhole minimum
//   - adjacent: adjacent pairs equal count
//   - phase: the arrangement was produced by phase
//   - feasible: Analyze reports feasible
//   - order: titles appear exactly in this order
//
// Records are titled poem-1, poem-2, ... in category order.
package harness
