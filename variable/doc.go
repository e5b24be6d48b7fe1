// Package variable implements Variable[T], the engine's three-compartment
// incremental collection, and Iteration, the fixed-point driver that
// advances many Variables in lock-step.
//
// # The semi-naive invariant
//
// A Variable holds tuples in three compartments:
//
//	stable   relations already processed in previous rounds (pairwise disjoint)
//	recent   tuples discovered in the previous round, readable this round
//	to_add   tuples produced this round, pending the next Changed call
//
// Rule bodies read stable and recent (via join/leapfrog) and write new
// derivations through InsertRelation/InsertSequence into to_add. Changed
// then promotes recent into stable (merging geometrically-sized batches)
// and drains to_add into a freshly-filtered recent, deduplicated against
// every stable batch. This is what makes bottom-up evaluation only
// re-derive facts reachable from the previous round's new tuples, instead
// of recomputing every rule over the whole relation each round.
//
// # Iteration
//
// Iteration owns a group of Variables — possibly of different tuple types,
// since a ruleset routinely mixes shapes like (node, node) edges with
// (node, node, node) paths — and advances them together, enforcing an
// optional round cap and supporting Reset for incremental maintenance
// after a fixed point has already converged once.
package variable
