// Package leapfrog implements the leaper protocol and leapfrog trie join:
// a worst-case-optimal multi-way join that, for each prefix tuple, picks
// the most selective relation to propose values from and intersects the
// proposal against every other relation.
//
// A Leaper is a small polymorphic object exposing Count/Propose/Intersect
// over a common prefix type P and value type V. Three concrete kinds cover
// every role a rule body needs: ExtendWith contributes and filters values
// from a positive (key, value) relation, FilterAnti and ExtendAnti encode
// stratified negation — FilterAnti rejects a whole prefix outright,
// ExtendAnti removes specific values from the candidate set without ever
// being able to propose one.
//
// ExtendInto drives the join: for each tuple in a Variable's recent
// compartment, it asks every leaper for a count, proposes from the
// smallest bounded one, intersects the rest, and stages the survivors.
// This is the one place on the module's hot path where heterogeneous
// implementations of a common interface are stored side by side in a
// single slice and dispatched dynamically, rather than through a generic
// type parameter; the only other such slice is Iteration's list of member
// Variables, called once per member per round.
package leapfrog
