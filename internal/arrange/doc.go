// Package arrange reorders a poem collection so that no two adjacent
// poems share a category.
//
// Arrange is a single linear pipeline with one branch:
//
// Phase 1 (shuffle):
// Fisher–Yates shuffle the working copy and test the adjacency predicate,
// up to Options.MaxAttempts times. The first clean permutation wins.
//
// Phase 2 (fallback, only after Phase 1 exhausts its budget):
//  1. Group records by category key (uncategorized records form one group).
//  2. Order groups by descending size; ties keep first-seen order.
//  3. Round-robin: every round takes the front member of each non-empty
//     group, visiting groups in the same order.
//  4. Local repair: for each i equal to i-1, swap i with the first later
//     position of a different category. No candidate leaves the pair.
//  5. Interleave (unless Options.RepairOnly): the repair pass only looks
//     forward and can leave avoidable pairs. When pairs above the
//     pigeonhole minimum remain, the groups are laid out slot by slot
//     and the better of the two candidates is kept.
//
// After either phase, ids are renumbered 1..n in output order.
//
// FEASIBILITY:
// For n records whose largest category holds c of them, an order with no
// adjacent pair exists iff c <= ceil(n/2). Otherwise at least 2c-n-1
// pairs are forced. Analyze reports both numbers. Arrange never fails on
// an infeasible input; it returns its best order and reports the pairs
// left in Result.Adjacent.
//
// Uncategorized records never form an adjacent pair.
//
// Arrange is not safe for concurrent use with a shared RandomSource.
package arrange
