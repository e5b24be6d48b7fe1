package zodd

import "errors"

// Sentinel errors returned by the engine. Host code should compare against
// these with errors.Is, since I/O errors from a caller-supplied reader or
// writer are wrapped rather than replaced.
var (
	// ErrAllocationFailed is returned when a buffer growth, copy, or clone
	// would exceed the Context's MaxElements budget. It is the Go-idiomatic
	// stand-in for the "every allocation can fail" contract of a systems
	// implementation: Go's garbage-collected allocator does not itself
	// signal allocation failure, so this is raised instead whenever a
	// Context-bounded operation would grow past its configured limit.
	// The operation that returns it leaves its inputs unchanged.
	ErrAllocationFailed = errors.New("zodd: allocation budget exceeded")

	// ErrMaxRoundsExceeded is returned by Iteration.Changed once the
	// configured round cap has been reached. The Iteration remains usable
	// after Reset.
	ErrMaxRoundsExceeded = errors.New("zodd: max rounds exceeded")

	// ErrInvalidFormat is returned by Relation persistence when the magic
	// bytes don't match, or when the declared length can't be represented
	// by the host's index type.
	ErrInvalidFormat = errors.New("zodd: invalid relation format")

	// ErrUnsupportedVersion is returned when a persisted Relation's version
	// byte is not one this build understands.
	ErrUnsupportedVersion = errors.New("zodd: unsupported relation version")

	// ErrTooLarge is returned by LoadWithLimit when the persisted length
	// exceeds the caller-supplied maximum.
	ErrTooLarge = errors.New("zodd: relation exceeds load limit")

	// ErrUnsupportedType is returned by Save/Load when the tuple type's
	// schema contains a pointer field, which cannot be given a stable byte
	// layout.
	ErrUnsupportedType = errors.New("zodd: tuple type is not persistable")
)
