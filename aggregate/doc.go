// Package aggregate implements group-by folding over a Relation: extract a
// key per tuple, sort by that key (which need not be a prefix of the
// tuple's own order), and fold each contiguous run into one accumulator.
package aggregate
