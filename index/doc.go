// Package index implements a secondary index: an ordered mapping from an
// extracted key to a Relation bucket, supporting point and range lookups.
//
// The ordered mapping is realized as a sorted slice of (key, bucket)
// entries probed with relation.GallopBy rather than a from-scratch
// balanced tree — the same gallop search every other component in this
// module already uses for its own sorted-slice lookups, applied here to
// find a key's entry instead of a tuple's position.
package index
