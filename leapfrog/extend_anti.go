package leapfrog

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// ExtendAnti is a value-level negative leaper: it never proposes (Count is
// always Unbounded) and, on Intersect, removes values that ARE present in
// its block for p rather than keeping them.
type ExtendAnti[P any, K constraints.Ordered, V constraints.Ordered] struct {
	Rel   relation.Relation[Pair[K, V]]
	KeyOf func(P) K
}

// Count always returns Unbounded: an anti leaper can only filter, never
// propose — there is no way to enumerate "every value this key does not
// have" without knowing the candidate set first.
func (e *ExtendAnti[P, K, V]) Count(p P) int {
	return Unbounded
}

// Propose is unreachable: Count's Unbounded sentinel guarantees an anti
// leaper is never selected as the proposer.
func (e *ExtendAnti[P, K, V]) Propose(p P, out *[]V) {}

// Intersect removes from *values every value present in this leaper's
// block for p, galloping a cursor forward through the block as *values is
// scanned in ascending order.
func (e *ExtendAnti[P, K, V]) Intersect(p P, values *[]V) {
	k := e.KeyOf(p)
	tail := relation.GallopBy(e.Rel.Elements(), func(x Pair[K, V]) bool { return x.Key >= k })
	rest := relation.GallopBy(tail, func(x Pair[K, V]) bool { return x.Key != k })
	block := tail[:len(tail)-len(rest)]

	kept := (*values)[:0]
	cursor := block
	for _, v := range *values {
		cursor = relation.GallopBy(cursor, func(x Pair[K, V]) bool { return x.Val >= v })
		present := len(cursor) > 0 && cursor[0].Val == v
		if !present {
			kept = append(kept, v)
		}
	}
	*values = kept
}

// Clone returns an independent ExtendAnti sharing the same backing
// Relation — there is no per-invocation cache to isolate.
func (e *ExtendAnti[P, K, V]) Clone(ctx *zodd.Context) (Leaper[P, V], error) {
	if err := ctx.CheckBudget(1); err != nil {
		return nil, err
	}
	return &ExtendAnti[P, K, V]{Rel: e.Rel, KeyOf: e.KeyOf}, nil
}
