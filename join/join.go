package join

import (
	"golang.org/x/exp/constraints"

	"github.com/CogitatorTech/zodd/relation"
)

// JoinHelper scans a and b, each assumed sorted with a key — as extracted
// by keyA/keyB — as an order-compatible prefix of the tuple order, and
// emits the cross product of every pair of equal-key groups through f, in
// the order the groups are encountered.
//
// Cursors never move backward: when the head keys differ, the side with
// the smaller key gallops forward to the first key not less than the
// other's; when they match, the full run of each side's equal-key block is
// found (again via gallop), the cross product of the two blocks is
// emitted, and both cursors advance past their blocks. This makes the scan
// O(n + m + k·log) where k is the number of matching key blocks, rather
// than O(n·m).
func JoinHelper[A relation.Tuple[A], B relation.Tuple[B], K constraints.Ordered, R any](
	a []A, b []B,
	keyA func(A) K, keyB func(B) K,
	f func(A, B) R,
) []R {
	var out []R

	for len(a) > 0 && len(b) > 0 {
		ka, kb := keyA(a[0]), keyB(b[0])
		switch {
		case ka < kb:
			a = relation.GallopBy(a, func(x A) bool { return keyA(x) >= kb })
		case ka > kb:
			b = relation.GallopBy(b, func(x B) bool { return keyB(x) >= ka })
		default:
			tailA := relation.GallopBy(a, func(x A) bool { return keyA(x) != ka })
			tailB := relation.GallopBy(b, func(x B) bool { return keyB(x) != kb })
			blockA := a[:len(a)-len(tailA)]
			blockB := b[:len(b)-len(tailB)]

			for _, va := range blockA {
				for _, vb := range blockB {
					out = append(out, f(va, vb))
				}
			}

			a, b = tailA, tailB
		}
	}

	return out
}
