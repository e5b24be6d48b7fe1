// Package relation implements Relation[T], the engine's immutable sorted
// and deduplicated tuple storage, along with the gallop search it shares
// with the join and index packages, and a versioned binary persistence
// format.
//
// # Overview
//
// A Relation[T] is the semantic value of a set of tuples, materialized as a
// single contiguous, strictly increasing, duplicate-free slice. It owns its
// storage exclusively: Merge consumes both operands and returns a fresh
// Relation. The operands are passed by value and are not cleared; they
// must not be used after the call.
//
//	r, err := relation.FromSequence(ctx, []Pair{{2, 20}, {1, 10}, {1, 10}})
//	// err == nil; r.Elements() == [{1,10}, {2,20}]
//
// # Tuple ordering
//
// Host tuple types implement Tuple[T] with a single method, Compare,
// returning the first nonzero field comparison in declaration order — a
// plain lexicographic order over the tuple's fields.
//
// # Persistence
//
// Save/Load/LoadWithLimit implement the bit-exact "ZODDREL" byte layout:
// magic, version, little-endian length, then one fixed-width record per
// tuple, field by field. Tuple types containing pointers cannot be
// persisted (ErrUnsupportedType); loaded data is always re-sorted and
// re-deduplicated rather than trusted.
package relation
