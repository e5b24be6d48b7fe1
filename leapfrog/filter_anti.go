package leapfrog

import (
	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// FilterAnti is a whole-prefix negative leaper: it rejects a prefix p
// outright when of(p) is present in Rel, and otherwise imposes no
// constraint at all. Its Propose is never called — Count returns either 0,
// which makes ExtendInto skip the prefix before any proposal, or Unbounded,
// which keeps it from being selected as the proposer — and its Intersect is
// a no-op, since any prefix that reaches Intersect has already passed it.
type FilterAnti[P any, V any, M relation.Tuple[M]] struct {
	Rel relation.Relation[M]
	Of  func(P) M
}

// Count returns 0 (meaning "no values possible for this prefix, skip it")
// if of(p) is present in Rel, else Unbounded.
func (f *FilterAnti[P, V, M]) Count(p P) int {
	m := f.Of(p)
	tail := relation.Gallop(f.Rel.Elements(), m)
	if len(tail) > 0 && tail[0].Compare(m) == 0 {
		return 0
	}
	return Unbounded
}

// Propose is unreachable: when Count returns 0 ExtendInto skips the prefix
// without proposing, and Unbounded is never selected as the minimum.
func (f *FilterAnti[P, V, M]) Propose(p P, out *[]V) {}

// Intersect is a no-op: FilterAnti only ever rejects a prefix wholesale,
// via Count, never narrows a candidate value set.
func (f *FilterAnti[P, V, M]) Intersect(p P, values *[]V) {}

// Clone returns an independent FilterAnti sharing the same backing
// Relation — there is no per-invocation cache to isolate.
func (f *FilterAnti[P, V, M]) Clone(ctx *zodd.Context) (Leaper[P, V], error) {
	if err := ctx.CheckBudget(1); err != nil {
		return nil, err
	}
	return &FilterAnti[P, V, M]{Rel: f.Rel, Of: f.Of}, nil
}
