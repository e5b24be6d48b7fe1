package index

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

type entry[K constraints.Ordered, T relation.Tuple[T]] struct {
	key    K
	bucket relation.Relation[T]
}

// Index is an ordered key -> Relation bucket mapping. It owns its buckets;
// there is no separate teardown operation since Go's allocator reclaims
// them once the Index itself is no longer referenced.
//
// The zero value is not usable; construct with New.
type Index[K constraints.Ordered, T relation.Tuple[T]] struct {
	ctx     *zodd.Context
	keyFn   func(T) K
	entries []entry[K, T]
}

// New creates an empty Index bound to ctx, keyed by keyFn.
func New[K constraints.Ordered, T relation.Tuple[T]](ctx *zodd.Context, keyFn func(T) K) *Index[K, T] {
	return &Index[K, T]{ctx: ctx, keyFn: keyFn}
}

// Insert extracts k = keyFn(t) and merges a singleton {t} into k's bucket,
// creating a new entry in sorted position if k has no bucket yet.
func (idx *Index[K, T]) Insert(t T) error {
	k := idx.keyFn(t)
	singleton, err := relation.FromSequence(idx.ctx, []T{t})
	if err != nil {
		return err
	}

	i := idx.lowerBound(k)
	if i < len(idx.entries) && idx.entries[i].key == k {
		merged, err := relation.Merge(idx.ctx, idx.entries[i].bucket, singleton)
		if err != nil {
			return err
		}
		idx.entries[i].bucket = merged
		return nil
	}

	idx.entries = append(idx.entries, entry[K, T]{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = entry[K, T]{key: k, bucket: singleton}
	return nil
}

// Get returns a borrow of the bucket Relation for k, or ok == false if no
// tuple with that key has been inserted.
func (idx *Index[K, T]) Get(k K) (bucket relation.Relation[T], ok bool) {
	i := idx.lowerBound(k)
	if i < len(idx.entries) && idx.entries[i].key == k {
		return idx.entries[i].bucket, true
	}
	return relation.Relation[T]{}, false
}

// GetRange returns a fresh Relation containing every tuple whose key k
// satisfies lo <= k <= hi, in ascending key order.
func (idx *Index[K, T]) GetRange(lo, hi K) (relation.Relation[T], error) {
	var staged []T
	for i := idx.lowerBound(lo); i < len(idx.entries) && idx.entries[i].key <= hi; i++ {
		staged = append(staged, idx.entries[i].bucket.Elements()...)
	}
	return relation.FromSequence(idx.ctx, staged)
}

// lowerBound returns the position of the first entry whose key is >= k, or
// len(idx.entries) if none is.
func (idx *Index[K, T]) lowerBound(k K) int {
	tail := relation.GallopBy(idx.entries, func(e entry[K, T]) bool { return e.key >= k })
	return len(idx.entries) - len(tail)
}
