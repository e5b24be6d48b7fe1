package join

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
	"github.com/CogitatorTech/zodd/variable"
)

// JoinInto applies the semi-naive join identity
//
//	Δ(A ⋈ B) = Δ(A) ⋈ B_stable ∪ A_stable ⋈ Δ(B) ∪ Δ(A) ⋈ Δ(B)
//
// by calling JoinHelper three ways — a's recent against every one of b's
// stable batches, each of a's stable batches against b's recent, and
// a's recent against b's recent — mapping every match through f. The
// concatenated results are built into a single Relation (which sorts and
// dedups) and inserted into out.
//
// An empty a.Recent and empty b.Recent produce no output regardless of
// stable contents: that is the point of semi-naive evaluation, and it
// falls out of JoinHelper directly rather than needing a special case.
//
// When ctx has a worker pool, the three-way enumeration is split across
// it, scheduling one task per stable-batch pairing plus one for the
// recent×recent term; JoinHelper's own output order does not matter since
// the final Relation construction sorts and dedups regardless.
func JoinInto[TA relation.Tuple[TA], TB relation.Tuple[TB], K constraints.Ordered, TR relation.Tuple[TR]](
	ctx *zodd.Context,
	a *variable.Variable[TA], b *variable.Variable[TB],
	keyA func(TA) K, keyB func(TB) K,
	f func(TA, TB) TR,
	out *variable.Variable[TR],
) error {
	aRecent := a.Recent().Elements()
	bRecent := b.Recent().Elements()
	aStable := a.Stable()
	bStable := b.Stable()

	jobs := make([]func() []TR, 0, len(aStable)+len(bStable)+1)

	for _, batch := range bStable {
		batch := batch
		jobs = append(jobs, func() []TR {
			return JoinHelper(aRecent, batch.Elements(), keyA, keyB, f)
		})
	}
	for _, batch := range aStable {
		batch := batch
		jobs = append(jobs, func() []TR {
			return JoinHelper(batch.Elements(), bRecent, keyA, keyB, f)
		})
	}
	jobs = append(jobs, func() []TR {
		return JoinHelper(aRecent, bRecent, keyA, keyB, f)
	})

	results := make([][]TR, len(jobs))
	if err := ctx.ParallelEach(len(jobs), func(i int) error {
		results[i] = jobs[i]()
		return nil
	}); err != nil {
		return err
	}

	var all []TR
	for _, r := range results {
		all = append(all, r...)
	}

	rel, err := relation.FromSequence(ctx, all)
	if err != nil {
		return err
	}
	out.InsertRelation(rel)
	return nil
}
