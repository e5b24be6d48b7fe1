// Package zodd implements the core of an embeddable bottom-up Datalog
// evaluator: relations, incremental variables, a fixed-point iteration
// driver, merge-join and leapfrog trie join, anti-join, aggregation, and a
// secondary index, all built to be driven by a host program rather than by
// parsing a Datalog text surface.
//
// # Overview
//
// The engine materializes derived tuples by repeatedly applying rules to
// relations until a fixed point is reached, using the semi-naive strategy:
// each round only re-derives facts reachable from tuples discovered in the
// previous round. Bottom-up evaluation is expressed as data flow between a
// handful of generic types:
//
//	relation.Relation[T]   immutable, sorted, deduplicated tuple storage
//	variable.Variable[T]   incremental collection (stable / recent / to-add)
//	variable.Iteration     the fixed-point driver owning a group of Variables
//	join.JoinInto          semi-naive two-relation merge-join
//	leapfrog.ExtendInto    worst-case-optimal multi-way leapfrog trie join
//	join.JoinAnti          anti-join for stratified negation
//	aggregate.GroupBy      group-by fold over a Relation
//	index.Index[K, T]      ordered key → bucket secondary index
//
// This package holds what every other package shares: the [Context] value
// (an optional element-count budget plus an optional worker pool) and the
// sentinel errors the engine can return.
//
// # Package layout
//
// zodd (this package) sits at the root of the dependency graph; relation
// depends only on zodd; variable depends on zodd and relation; join,
// leapfrog, aggregate, and index depend on zodd, relation, and (for join and
// leapfrog) variable. There is no cycle.
//
// # Scope
//
// This is the evaluator's core only. It does not parse a Datalog surface
// syntax, does not choose join order, and does not support unstratified
// recursive negation — a host program wires rule bodies together out of
// the primitives above and decides evaluation order itself.
package zodd
