package leapfrog

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
)

// Unbounded is the sentinel Count returns to mean "this leaper cannot
// propose for this prefix; use it only to filter." Real counts are always
// non-negative, so a negative sentinel is unambiguous.
const Unbounded = -1

// Leaper is the polymorphic interface ExtendInto dispatches across: a
// small object able to bound, propose, and filter the values it
// contributes for a given prefix tuple P.
//
// Clone produces an independent copy for use by one worker goroutine.
// ExtendWith's Count caches the block it found so Propose can reuse it
// without a second search; that cache is per-leaper, so concurrent workers
// each need their own clone. Clone takes a Context so a failed allocation
// under that Context's budget surfaces as the same ErrAllocationFailed
// every other bounded operation in this module returns, rather than a
// bespoke error.
type Leaper[P any, V any] interface {
	// Count returns an upper bound on the values this leaper would
	// contribute for p, or Unbounded if it cannot propose at all.
	Count(p P) int
	// Propose appends this leaper's values for p, in ascending order, to
	// *out. Only ever called on the leaper whose Count was the minimum
	// bounded one.
	Propose(p P, out *[]V)
	// Intersect restricts *values in place to those this leaper also
	// contains (or, for an anti leaper, does not contain) for p.
	Intersect(p P, values *[]V)
	// Clone returns an independent copy of this leaper, safe to use
	// concurrently with the original and with other clones.
	Clone(ctx *zodd.Context) (Leaper[P, V], error)
}

// Pair is the (key, value) tuple type the ExtendWith and ExtendAnti leaper
// kinds are built on. Both K and V must be ordered: the Relation backing a
// leaper is sorted by the full (Key, Val) pair so that, for a fixed key,
// its values come out in ascending order — the order Propose and
// Intersect's forward-only gallop cursors depend on.
type Pair[K constraints.Ordered, V constraints.Ordered] struct {
	Key K
	Val V
}

// Compare orders Pairs lexicographically by (Key, Val).
func (p Pair[K, V]) Compare(other Pair[K, V]) int {
	if p.Key != other.Key {
		if p.Key < other.Key {
			return -1
		}
		return 1
	}
	if p.Val != other.Val {
		if p.Val < other.Val {
			return -1
		}
		return 1
	}
	return 0
}
