// Package join implements merge-join: a two-sorted-slice join over a
// shared key, and its semi-naive lift across two Variables.
//
// JoinHelper is the primitive: given two relations each sorted with a key
// as an order-compatible prefix, it scans both once with cursors that
// always point at the head of a group of equal keys, emitting the cross
// product of matching groups. JoinInto applies JoinHelper three ways to
// implement the semi-naive join identity
//
//	Δ(A ⋈ B) = Δ(A) ⋈ B_stable ∪ A_stable ⋈ Δ(B) ∪ Δ(A) ⋈ Δ(B)
//
// so that each round only re-derives tuples reachable through a tuple new
// in the previous round. JoinAnti is the negated counterpart: it keeps
// tuples of one Variable's recent compartment whose key is absent from
// another Variable entirely.
package join
