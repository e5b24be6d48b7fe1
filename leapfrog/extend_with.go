package leapfrog

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// ExtendWith is a positive leaper: it contributes the block of values
// stored under keyOf(p) in Rel, and filters a candidate set down to those
// it also contains.
type ExtendWith[P any, K constraints.Ordered, V constraints.Ordered] struct {
	Rel   relation.Relation[Pair[K, V]]
	KeyOf func(P) K

	cachedBlock []Pair[K, V]
	hasCache    bool
}

// Count returns the size of the value-block for keyOf(p), caching the
// block so a subsequent Propose or Intersect call for the same p avoids a
// second binary search.
func (e *ExtendWith[P, K, V]) Count(p P) int {
	e.cachedBlock = e.blockFor(e.KeyOf(p))
	e.hasCache = true
	return len(e.cachedBlock)
}

// Propose appends the cached block's values, in ascending order, to *out.
// Only called on the leaper Count selected as the minimum.
func (e *ExtendWith[P, K, V]) Propose(p P, out *[]V) {
	for _, pair := range e.cachedBlock {
		*out = append(*out, pair.Val)
	}
}

// Intersect keeps only the values of *values that also appear in this
// leaper's block for p, galloping a cursor forward through the block as
// *values is scanned in ascending order.
func (e *ExtendWith[P, K, V]) Intersect(p P, values *[]V) {
	block := e.cachedBlock
	if !e.hasCache {
		block = e.blockFor(e.KeyOf(p))
	}

	kept := (*values)[:0]
	cursor := block
	for _, v := range *values {
		cursor = relation.GallopBy(cursor, func(x Pair[K, V]) bool { return x.Val >= v })
		if len(cursor) > 0 && cursor[0].Val == v {
			kept = append(kept, v)
		}
	}
	*values = kept
}

// Clone returns an independent ExtendWith sharing the same backing
// Relation but with its own, empty block cache.
func (e *ExtendWith[P, K, V]) Clone(ctx *zodd.Context) (Leaper[P, V], error) {
	if err := ctx.CheckBudget(1); err != nil {
		return nil, err
	}
	return &ExtendWith[P, K, V]{Rel: e.Rel, KeyOf: e.KeyOf}, nil
}

func (e *ExtendWith[P, K, V]) blockFor(k K) []Pair[K, V] {
	tail := relation.GallopBy(e.Rel.Elements(), func(x Pair[K, V]) bool { return x.Key >= k })
	rest := relation.GallopBy(tail, func(x Pair[K, V]) bool { return x.Key != k })
	return tail[:len(tail)-len(rest)]
}
