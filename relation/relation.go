package relation

import (
	"golang.org/x/exp/slices"

	"github.com/CogitatorTech/zodd"
)

// Tuple is the capability a type needs to live inside a Relation: a total,
// lexicographic order expressed as a single comparison method. Compare
// must return a negative number if the receiver sorts before other, a
// positive number if it sorts after, and zero if they are equal — the same
// contract as a field-by-field comparator walking declaration order and
// returning the first nonzero field.
//
// Tuple is intentionally self-referential (T must implement Tuple[T]) so
// that Relation[T] can be declared with a single type parameter instead of
// threading a separate comparator value through every call — compile-time
// generics with an interface bound standing in for a trait.
type Tuple[T any] interface {
	Compare(other T) int
}

// Relation is an immutable, sorted, deduplicated sequence of tuples. It
// owns its storage exclusively: the only way to produce a new Relation
// from existing ones is Merge, which consumes both operands.
//
// The zero value is a valid empty Relation.
type Relation[T Tuple[T]] struct {
	elements []T
}

// Empty returns a Relation with no elements and no allocated storage.
func Empty[T Tuple[T]]() Relation[T] {
	return Relation[T]{}
}

// FromSequence copies xs into a fresh buffer, sorts it by Compare, and
// compacts adjacent duplicates in a single left-to-right pass. The input
// slice xs is never modified or retained.
//
// If ctx has a MaxElements budget and len(xs) exceeds it, FromSequence
// returns ErrAllocationFailed and a zero Relation rather than copying.
func FromSequence[T Tuple[T]](ctx *zodd.Context, xs []T) (Relation[T], error) {
	if err := ctx.CheckBudget(len(xs)); err != nil {
		return Relation[T]{}, err
	}
	if len(xs) == 0 {
		return Relation[T]{}, nil
	}

	buf := make([]T, len(xs))
	copy(buf, xs)

	slices.SortFunc(buf, func(a, b T) int { return a.Compare(b) })
	buf = slices.CompactFunc(buf, func(a, b T) bool { return a.Compare(b) == 0 })

	// Shrink the backing array when compaction freed a meaningful amount,
	// so a Relation returned across an API boundary doesn't pin memory a
	// large run of duplicates made unreachable.
	if cap(buf) > len(buf)*2 && len(buf) > 0 {
		buf = slices.Clip(append([]T(nil), buf...))
	}

	return Relation[T]{elements: buf}, nil
}

// Elements returns the Relation's tuples in ascending order. The returned
// slice aliases the Relation's storage and must not be modified or
// retained past any subsequent mutating call (Merge) on this value.
func (r Relation[T]) Elements() []T {
	return r.elements
}

// Len returns the number of tuples in the Relation.
func (r Relation[T]) Len() int {
	return len(r.elements)
}

// IsEmpty reports whether the Relation has no tuples.
func (r Relation[T]) IsEmpty() bool {
	return len(r.elements) == 0
}

// Merge consumes a and b and returns a new Relation equal to their set
// union. Both a and b are invalidated by this call — ownership transfers
// to the result, and it is enforced only by convention: callers must not
// read from a or b afterward.
//
// The merge is a linear two-cursor walk: the smaller head element is
// written to the output, and elements comparing equal are written once
// with both cursors advanced — no element of the result is ever compared
// against more than a constant number of others in either input.
func Merge[T Tuple[T]](ctx *zodd.Context, a, b Relation[T]) (Relation[T], error) {
	if a.IsEmpty() {
		return b, nil
	}
	if b.IsEmpty() {
		return a, nil
	}
	if err := ctx.CheckBudget(len(a.elements) + len(b.elements)); err != nil {
		return Relation[T]{}, err
	}

	out := make([]T, 0, len(a.elements)+len(b.elements))
	i, j := 0, 0
	for i < len(a.elements) && j < len(b.elements) {
		switch c := a.elements[i].Compare(b.elements[j]); {
		case c < 0:
			out = append(out, a.elements[i])
			i++
		case c > 0:
			out = append(out, b.elements[j])
			j++
		default:
			out = append(out, a.elements[i])
			i++
			j++
		}
	}
	out = append(out, a.elements[i:]...)
	out = append(out, b.elements[j:]...)

	return Relation[T]{elements: out}, nil
}

// MergeAll folds Merge across rels in order, returning an empty Relation
// for an empty input. Used wherever a compartment accumulates several
// batches that must be collapsed into one (Variable.Changed's to_add
// draining, Variable.Complete).
func MergeAll[T Tuple[T]](ctx *zodd.Context, rels []Relation[T]) (Relation[T], error) {
	acc := Empty[T]()
	for _, r := range rels {
		merged, err := Merge(ctx, acc, r)
		if err != nil {
			return Relation[T]{}, err
		}
		acc = merged
	}
	return acc, nil
}
