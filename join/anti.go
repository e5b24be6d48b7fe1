package join

import (
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
	"github.com/CogitatorTech/zodd/variable"
)

// JoinAnti produces those tuples of input.Recent whose key — as extracted
// by keyIn — does not appear anywhere in filter's full tuple set (its
// recent compartment and every stable batch). Each probe gallops into one
// batch at a time by key and stops as soon as a match is found. Surviving
// tuples are mapped through logic and inserted into out as one Relation.
//
// When ctx has a worker pool, input.Recent is split into chunks, matching
// every other chunked operation in this module.
func JoinAnti[TIn relation.Tuple[TIn], TFilter relation.Tuple[TFilter], K constraints.Ordered, TR relation.Tuple[TR]](
	ctx *zodd.Context,
	input *variable.Variable[TIn], filter *variable.Variable[TFilter],
	keyIn func(TIn) K, keyFilter func(TFilter) K,
	logic func(TIn) TR,
	out *variable.Variable[TR],
) error {
	recent := input.Recent().Elements()
	if len(recent) == 0 {
		return nil
	}

	batches := make([][]TFilter, 0, len(filter.Stable())+1)
	batches = append(batches, filter.Recent().Elements())
	for _, b := range filter.Stable() {
		batches = append(batches, b.Elements())
	}

	var (
		mu  sync.Mutex
		all []TR
	)
	err := ctx.ParallelFor(len(recent), func(lo, hi int) error {
		local := make([]TR, 0, hi-lo)
		for _, t := range recent[lo:hi] {
			if !keyPresentInAny(batches, keyFilter, keyIn(t)) {
				local = append(local, logic(t))
			}
		}
		mu.Lock()
		all = append(all, local...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	rel, err := relation.FromSequence(ctx, all)
	if err != nil {
		return err
	}
	out.InsertRelation(rel)
	return nil
}

func keyPresentInAny[T any, K constraints.Ordered](batches [][]T, keyOf func(T) K, target K) bool {
	for _, batch := range batches {
		tail := relation.GallopBy(batch, func(x T) bool { return keyOf(x) >= target })
		if len(tail) > 0 && keyOf(tail[0]) == target {
			return true
		}
	}
	return false
}
