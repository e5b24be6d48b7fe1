package variable

import (
	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/relation"
)

// member is the narrow, unexported interface Iteration uses to hold
// Variables of different tuple types side by side in one slice — Go has no
// existential types, so a fixed-point driver advancing both
// Variable[EdgePair] and Variable[TriplePair] needs some v-table. It
// exposes only the state-advance operation, not total_len or the
// compartments, keeping this a narrow second boundary rather than a
// general escape hatch.
type member interface {
	changed() (bool, error)
}

// Iteration owns a group of Variables bound to the same Context and
// advances them together, enforcing an optional round cap.
//
// Variables are created through NewVariableIn rather than variable.New so
// that Iteration can register them as members; all Variables created this
// way share the Iteration's Context.
type Iteration struct {
	ctx     *zodd.Context
	members []member

	maxRounds    int
	currentRound int
}

// IterationOption configures an Iteration at construction time.
type IterationOption func(*Iteration)

// WithMaxRounds caps the number of times Changed may be called before it
// fails with ErrMaxRoundsExceeded. Zero (the default) means unbounded.
func WithMaxRounds(n int) IterationOption {
	return func(it *Iteration) {
		it.maxRounds = n
	}
}

// NewIteration creates an Iteration bound to ctx with no members.
func NewIteration(ctx *zodd.Context, opts ...IterationOption) *Iteration {
	it := &Iteration{ctx: ctx}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// NewVariableIn creates a Variable[T] bound to it's Context and registers
// it as a member, so Iteration.Changed advances it alongside every other
// Variable the Iteration owns.
func NewVariableIn[T relation.Tuple[T]](it *Iteration) *Variable[T] {
	v := New[T](it.ctx)
	it.members = append(it.members, v)
	return v
}

// CurrentRound returns the number of times Changed has been called since
// construction or the last Reset.
func (it *Iteration) CurrentRound() int {
	return it.currentRound
}

// Changed increments the round counter, failing with ErrMaxRoundsExceeded
// if a configured cap is now exceeded, then calls Changed on every member
// Variable — in parallel, across the Context's worker pool, when one is
// configured and there is more than one member — and returns the logical OR
// of their results.
func (it *Iteration) Changed() (bool, error) {
	it.currentRound++
	if it.maxRounds > 0 && it.currentRound > it.maxRounds {
		return false, zodd.ErrMaxRoundsExceeded
	}
	if len(it.members) == 0 {
		return false, nil
	}

	results := make([]bool, len(it.members))
	err := it.ctx.ParallelEach(len(it.members), func(i int) error {
		changed, err := it.members[i].changed()
		if err != nil {
			return err
		}
		results[i] = changed
		return nil
	})
	if err != nil {
		return false, err
	}

	any := false
	for _, changed := range results {
		any = any || changed
	}
	return any, nil
}

// Reset zeroes the round counter without touching any member Variable. It
// is the hook for incremental maintenance: after one fixed point converges,
// the host inserts additional base tuples into the existing Variables and
// calls Reset before re-driving Changed to extend the fixed point.
func (it *Iteration) Reset() {
	it.currentRound = 0
}
