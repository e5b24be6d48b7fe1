package aggregate

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// Group is the (key, accumulator) tuple type GroupBy produces. Both K and
// A are required to be ordered so Group itself has a total order and can
// live inside a Relation — the same reasoning that bounds leapfrog.Pair's
// type parameters.
type Group[K constraints.Ordered, A constraints.Ordered] struct {
	Key   K
	Value A
}

// Compare orders Groups lexicographically by (Key, Value).
func (g Group[K, A]) Compare(other Group[K, A]) int {
	if g.Key != other.Key {
		if g.Key < other.Key {
			return -1
		}
		return 1
	}
	if g.Value != other.Value {
		if g.Value < other.Value {
			return -1
		}
		return 1
	}
	return 0
}

type keyed[T any, K constraints.Ordered] struct {
	key K
	ref T
}

// GroupBy folds rel into (key, accumulator) pairs: every tuple is assigned
// a key via keyFn, the auxiliary (key, tuple) sequence is sorted by key
// (the tuple's own order is not sufficient when keyFn is not one of its
// leading fields), and each contiguous run of equal keys is folded with
// folder starting from init. folder must be pure.
//
// Parallelism, when ctx has a worker pool, is used only for the
// preprocessing step that fills the auxiliary (key, tuple) buffer — the
// fold itself is an inherently sequential scan over sorted data.
func GroupBy[T relation.Tuple[T], K constraints.Ordered, A constraints.Ordered](
	ctx *zodd.Context,
	rel relation.Relation[T],
	keyFn func(T) K,
	init A,
	folder func(A, T) A,
) (relation.Relation[Group[K, A]], error) {
	elems := rel.Elements()
	if err := ctx.CheckBudget(len(elems)); err != nil {
		return relation.Relation[Group[K, A]]{}, err
	}

	aux := make([]keyed[T, K], len(elems))
	err := ctx.ParallelFor(len(elems), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			aux[i] = keyed[T, K]{key: keyFn(elems[i]), ref: elems[i]}
		}
		return nil
	})
	if err != nil {
		return relation.Relation[Group[K, A]]{}, err
	}

	slices.SortFunc(aux, func(a, b keyed[T, K]) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		default:
			return 0
		}
	})

	var groups []Group[K, A]
	if len(aux) > 0 {
		currentKey := aux[0].key
		acc := folder(init, aux[0].ref)
		for _, kv := range aux[1:] {
			if kv.key != currentKey {
				groups = append(groups, Group[K, A]{Key: currentKey, Value: acc})
				currentKey = kv.key
				acc = init
			}
			acc = folder(acc, kv.ref)
		}
		groups = append(groups, Group[K, A]{Key: currentKey, Value: acc})
	}

	return relation.FromSequence(ctx, groups)
}
