package relation

// GallopBy returns the suffix of s starting at the first index i for which
// pred(s[i]) holds, using exponential-then-binary search rather than a
// plain binary search. pred must be monotonic across s: false for some
// prefix (possibly empty), true for the remaining suffix.
//
// This is the general shape behind Gallop (pred built from the tuple
// order) and the key-block boundary lookups merge-join and leapfrog need
// (pred built from a key comparison) — one search, two callers.
//
// The doubling phase grows a step size geometrically from 1 until it
// overshoots the boundary or the slice, landing within a window of size
// O(p) around the true position p; a binary search then narrows that
// window in O(log p) comparisons. For targets near the front of a long
// slice this is much cheaper than a plain O(log n) binary search's fixed
// cost, which is exactly the access pattern merge-join and leapfrog
// intersection produce (probing forward from a cursor that rarely needs to
// jump far).
//
// GallopBy never panics and never wraps: the step-doubling arithmetic
// saturates at len(s) rather than overflowing.
func GallopBy[T any](s []T, pred func(T) bool) []T {
	if len(s) == 0 || pred(s[0]) {
		return s
	}

	pos := 0
	step := 1
	for saturatingAdd(pos, step) < len(s) && !pred(s[pos+step]) {
		pos += step
		step = saturatingDouble(step, len(s))
	}

	lo := pos + 1
	hi := saturatingAdd(pos, step) + 1
	if hi > len(s) {
		hi = len(s)
	}
	if lo > hi {
		lo = hi
	}

	for lo < hi {
		mid := lo + (hi-lo)/2
		if !pred(s[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return s[lo:]
}

// Gallop returns the suffix of the sorted slice s starting at the first
// element that is not less than t — the lower-bound position. It is
// GallopBy specialized to the tuple order.
func Gallop[T Tuple[T]](s []T, t T) []T {
	return GallopBy(s, func(x T) bool { return x.Compare(t) >= 0 })
}

// saturatingAdd returns a+b, clamped to never overflow past the int range
// by returning a sentinel larger than any valid slice length when it would.
func saturatingAdd(a, b int) int {
	sum := a + b
	if sum < a { // overflow wrapped around
		return int(^uint(0) >> 1) // max int
	}
	return sum
}

// saturatingDouble doubles step, clamping to limit so the next saturatingAdd
// can't wrap and so step never needs to exceed the slice length gallop is
// searching within.
func saturatingDouble(step, limit int) int {
	if step > limit {
		return limit
	}
	doubled := step * 2
	if doubled < step || doubled > limit { // overflow or past limit
		return limit
	}
	return doubled
}
