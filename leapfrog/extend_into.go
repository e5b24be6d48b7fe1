package leapfrog

import (
	"sync"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
	"github.com/CogitatorTech/zodd/variable"
)

// ExtendInto drives the leapfrog trie join. For every tuple t in
// source.Recent, it queries Count on every leaper, selects the one with
// the smallest bounded count (skipping t if every leaper is unbounded, or
// if the minimum count is zero), proposes from it, intersects the
// proposal against every other leaper, and maps each surviving value
// through logic. The staged results across all of source.Recent are built
// into one Relation and inserted into out.
//
// When ctx has a worker pool, source.Recent is chunked across it; each
// worker clones the leaper slice — ExtendWith holds a per-invocation
// cached block that must not be shared across goroutines — and
// accumulates into a private buffer, concatenated after the join.
func ExtendInto[P relation.Tuple[P], V any, R relation.Tuple[R]](
	ctx *zodd.Context,
	source *variable.Variable[P],
	leapers []Leaper[P, V],
	logic func(P, V) R,
	out *variable.Variable[R],
) error {
	src := source.Recent().Elements()
	if len(src) == 0 {
		return nil
	}

	var (
		mu  sync.Mutex
		all []R
	)
	err := ctx.ParallelFor(len(src), func(lo, hi int) error {
		cloned, err := cloneAll(ctx, leapers)
		if err != nil {
			return err
		}

		local := make([]R, 0, hi-lo)
		for _, t := range src[lo:hi] {
			extendOne(t, cloned, logic, &local)
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

// cloneAll clones every leaper for one worker's private use. GC reclaims
// any clones made before a later one fails; there is no explicit teardown
// to perform.
func cloneAll[P any, V any](ctx *zodd.Context, leapers []Leaper[P, V]) ([]Leaper[P, V], error) {
	cloned := make([]Leaper[P, V], len(leapers))
	for i, l := range leapers {
		c, err := l.Clone(ctx)
		if err != nil {
			return nil, err
		}
		cloned[i] = c
	}
	return cloned, nil
}

func extendOne[P any, V any, R any](t P, leapers []Leaper[P, V], logic func(P, V) R, local *[]R) {
	minIdx := -1
	minCount := 0
	for i, l := range leapers {
		c := l.Count(t)
		if c == Unbounded {
			continue
		}
		if minIdx == -1 || c < minCount {
			minIdx, minCount = i, c
		}
	}
	if minIdx == -1 || minCount == 0 {
		return
	}

	var values []V
	leapers[minIdx].Propose(t, &values)
	for i, l := range leapers {
		if i == minIdx {
			continue
		}
		l.Intersect(t, &values)
	}

	for _, v := range values {
		*local = append(*local, logic(t, v))
	}
}
