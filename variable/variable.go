package variable

import (
	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// Variable is a mutable incremental collection of tuples, structured as
// three compartments so that rule evaluation can follow the semi-naive
// discipline: stable holds everything already processed, recent holds
// what the previous round discovered and rule bodies may read this round,
// and to_add accumulates this round's output pending the next Changed.
//
// The zero value is not usable; construct with New.
type Variable[T relation.Tuple[T]] struct {
	ctx *zodd.Context

	stable []relation.Relation[T]
	recent relation.Relation[T]
	toAdd  []relation.Relation[T]
}

// New creates a Variable bound to ctx, with all three compartments empty.
func New[T relation.Tuple[T]](ctx *zodd.Context) *Variable[T] {
	return &Variable[T]{ctx: ctx}
}

// InsertRelation appends r to to_add. Overlaps with existing compartments
// are resolved later, on the next Changed.
func (v *Variable[T]) InsertRelation(r relation.Relation[T]) {
	v.toAdd = append(v.toAdd, r)
}

// InsertSequence builds a Relation from xs and appends it to to_add. An
// empty xs still appends an empty Relation rather than being skipped — a
// deliberate non-optimization (a no-op either way) kept for parity with
// InsertRelation's unconditional append.
func (v *Variable[T]) InsertSequence(xs []T) error {
	r, err := relation.FromSequence(v.ctx, xs)
	if err != nil {
		return err
	}
	v.toAdd = append(v.toAdd, r)
	return nil
}

// Recent returns the compartment of tuples discovered in the previous
// round. The returned Relation aliases the Variable's storage.
func (v *Variable[T]) Recent() relation.Relation[T] {
	return v.recent
}

// Stable returns the compartment's batches, each pairwise disjoint from the
// others and from Recent. The returned slice aliases the Variable's
// storage and must not be retained past the next Changed or Complete call.
func (v *Variable[T]) Stable() []relation.Relation[T] {
	return v.stable
}

// Changed is the semi-naive state advance: it promotes recent into stable,
// then drains to_add into a freshly filtered recent, and reports whether
// the new recent is non-empty.
//
// Phase one: if recent is non-empty, fold it together with any trailing
// stable batches whose size is at most twice recent's (popped largest-first
// from the end of stable), then append the merged batch to stable. This
// keeps stable's batches geometrically sized, bounding the amortized cost
// of promotion. recent becomes empty.
//
// Phase two: if to_add is non-empty, fold-merge its batches into a single
// candidate, then filter candidate against every batch now in stable —
// walking candidate once and galloping a cursor into each stable batch to
// drop tuples already present there. The filtered candidate becomes the
// new recent.
func (v *Variable[T]) Changed() (bool, error) {
	if !v.recent.IsEmpty() {
		merged := v.recent
		n := len(v.stable)
		for n > 0 {
			last := v.stable[n-1]
			if last.Len() > 2*merged.Len() {
				break
			}
			next, err := relation.Merge(v.ctx, merged, last)
			if err != nil {
				return false, err
			}
			merged = next
			n--
		}
		v.stable = append(v.stable[:n], merged)
		v.recent = relation.Empty[T]()
	}

	if len(v.toAdd) == 0 {
		return false, nil
	}

	candidate, err := relation.MergeAll(v.ctx, v.toAdd)
	if err != nil {
		return false, err
	}

	filtered, err := v.filterAgainstStable(candidate)
	if err != nil {
		return false, err
	}
	v.toAdd = nil
	v.recent = filtered
	return !v.recent.IsEmpty(), nil
}

// changed satisfies the unexported member interface Iteration uses to hold
// Variables of different tuple types side by side.
func (v *Variable[T]) changed() (bool, error) {
	return v.Changed()
}

// filterAgainstStable drops every element of candidate that already
// appears in some batch of stable, using one gallop cursor per batch that
// only ever advances forward as candidate is walked in order.
func (v *Variable[T]) filterAgainstStable(candidate relation.Relation[T]) (relation.Relation[T], error) {
	elems := candidate.Elements()
	if len(elems) == 0 || len(v.stable) == 0 {
		return candidate, nil
	}

	cursors := make([][]T, len(v.stable))
	for i, batch := range v.stable {
		cursors[i] = batch.Elements()
	}

	out := make([]T, 0, len(elems))
	for _, t := range elems {
		present := false
		for i, cursor := range cursors {
			tail := relation.Gallop(cursor, t)
			cursors[i] = tail
			if len(tail) > 0 && tail[0].Compare(t) == 0 {
				present = true
			}
		}
		if !present {
			out = append(out, t)
		}
	}

	return relation.FromSequence(v.ctx, out)
}

// TotalLen returns the sum of sizes of stable, recent, and to_add — an
// upper bound on the Variable's set size, exact once the Variable has
// stabilized (to_add may still contain tuples already present in stable).
func (v *Variable[T]) TotalLen() int {
	n := v.recent.Len()
	for _, batch := range v.stable {
		n += batch.Len()
	}
	for _, batch := range v.toAdd {
		n += batch.Len()
	}
	return n
}

// Complete drains recent and to_add into stable, fold-merges every stable
// batch into a single Relation, and returns it, leaving the Variable
// empty. The returned Relation is the final fixed-point value.
func (v *Variable[T]) Complete() (relation.Relation[T], error) {
	if !v.recent.IsEmpty() {
		v.stable = append(v.stable, v.recent)
		v.recent = relation.Empty[T]()
	}
	if len(v.toAdd) > 0 {
		v.stable = append(v.stable, v.toAdd...)
		v.toAdd = nil
	}

	result, err := relation.MergeAll(v.ctx, v.stable)
	if err != nil {
		return relation.Relation[T]{}, err
	}
	v.stable = nil
	return result, nil
}
