package zodd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CogitatorTech/zodd"
	"github.com/CogitatorTech/zodd/aggregate"
	"github.com/CogitatorTech/zodd/join"
	"github.com/CogitatorTech/zodd/leapfrog"
	"github.com/CogitatorTech/zodd/relation"
	"github.com/CogitatorTech/zodd/variable"
)

// This file drives eight end-to-end scenarios covering the engine's major
// capabilities: linear and cyclic transitive closure, same-generation over
// a small tree, a group-sum aggregate, a leapfrog multi-way intersection, a
// persistence round trip (with its failure cases), incremental maintenance
// via Iteration.Reset, and an anti-join.

// edgeYX and pathPair are the tuple types behind the transitive-closure
// scenarios: edgeYX keys an edge by its target (the role the recursive
// join needs), pathPair represents a discovered (source, destination)
// pair and is keyed by source.
type edgeYX struct{ Y, X int }

func (e edgeYX) Compare(other edgeYX) int {
	if e.Y != other.Y {
		if e.Y < other.Y {
			return -1
		}
		return 1
	}
	if e.X != other.X {
		if e.X < other.X {
			return -1
		}
		return 1
	}
	return 0
}

type pathPair struct{ X, Y int }

func (p pathPair) Compare(other pathPair) int {
	if p.X != other.X {
		if p.X < other.X {
			return -1
		}
		return 1
	}
	if p.Y != other.Y {
		if p.Y < other.Y {
			return -1
		}
		return 1
	}
	return 0
}

// newReachabilityEngine wires path(X,Z) :- edge(X,Z). path(X,Z) :-
// edge(X,Y), path(Y,Z). into an Iteration with two members: edgeByY (the
// edge relation keyed by its target) and path (the result, keyed by
// source, also holding the base-case direct edges).
func newReachabilityEngine(ctx *zodd.Context) (*variable.Iteration, *variable.Variable[edgeYX], *variable.Variable[pathPair]) {
	it := variable.NewIteration(ctx)
	edgeByY := variable.NewVariableIn[edgeYX](it)
	path := variable.NewVariableIn[pathPair](it)
	return it, edgeByY, path
}

func insertEdges(t *testing.T, edgeByY *variable.Variable[edgeYX], path *variable.Variable[pathPair], edges [][2]int) {
	t.Helper()
	ys := make([]edgeYX, len(edges))
	ps := make([]pathPair, len(edges))
	for i, e := range edges {
		ys[i] = edgeYX{Y: e[1], X: e[0]}
		ps[i] = pathPair{X: e[0], Y: e[1]}
	}
	require.NoError(t, edgeByY.InsertSequence(ys))
	require.NoError(t, path.InsertSequence(ps))
}

func driveReachabilityToFixpoint(t *testing.T, ctx *zodd.Context, it *variable.Iteration, edgeByY *variable.Variable[edgeYX], path *variable.Variable[pathPair]) {
	t.Helper()
	changed, err := it.Changed()
	require.NoError(t, err)
	for changed {
		require.NoError(t, join.JoinInto(ctx, edgeByY, path,
			func(e edgeYX) int { return e.Y },
			func(p pathPair) int { return p.X },
			func(e edgeYX, p pathPair) pathPair { return pathPair{X: e.X, Y: p.Y} },
			path,
		))
		changed, err = it.Changed()
		require.NoError(t, err)
	}
}

// TestIntegrationTransitiveClosureLinearChain computes reachability over a
// 3-edge linear chain.
func TestIntegrationTransitiveClosureLinearChain(t *testing.T) {
	ctx := zodd.NewContext()
	it, edgeByY, path := newReachabilityEngine(ctx)
	insertEdges(t, edgeByY, path, [][2]int{{1, 2}, {2, 3}, {3, 4}})
	driveReachabilityToFixpoint(t, ctx, it, edgeByY, path)

	result, err := path.Complete()
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]pathPair{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}},
		result.Elements())
}

// TestIntegrationTransitiveClosureCycle computes reachability over a
// 3-node cycle, where every node ends up reaching every node including
// itself.
func TestIntegrationTransitiveClosureCycle(t *testing.T) {
	ctx := zodd.NewContext()
	it, edgeByY, path := newReachabilityEngine(ctx)
	insertEdges(t, edgeByY, path, [][2]int{{1, 2}, {2, 3}, {3, 1}})
	driveReachabilityToFixpoint(t, ctx, it, edgeByY, path)

	result, err := path.Complete()
	require.NoError(t, err)
	var want []pathPair
	for x := 1; x <= 3; x++ {
		for y := 1; y <= 3; y++ {
			want = append(want, pathPair{x, y})
		}
	}
	assert.ElementsMatch(t, want, result.Elements())
}

// TestIntegrationIncrementalMaintenanceViaReset converges over a 2-edge
// chain, inserts one more edge, calls Reset, and re-drives to the 3-edge
// chain's fixed point without rebuilding from scratch.
func TestIntegrationIncrementalMaintenanceViaReset(t *testing.T) {
	ctx := zodd.NewContext()
	it, edgeByY, path := newReachabilityEngine(ctx)
	insertEdges(t, edgeByY, path, [][2]int{{1, 2}, {2, 3}})
	driveReachabilityToFixpoint(t, ctx, it, edgeByY, path)

	snapshot := func() []pathPair {
		batches := append([]relation.Relation[pathPair]{}, path.Stable()...)
		batches = append(batches, path.Recent())
		merged, err := relation.MergeAll(ctx, batches)
		require.NoError(t, err)
		return merged.Elements()
	}
	assert.ElementsMatch(t, []pathPair{{1, 2}, {1, 3}, {2, 3}}, snapshot())

	insertEdges(t, edgeByY, path, [][2]int{{3, 4}})
	it.Reset()
	driveReachabilityToFixpoint(t, ctx, it, edgeByY, path)

	result, err := path.Complete()
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]pathPair{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}},
		result.Elements())
}

// parentPair is parent(X,Y): X is the parent of Y, keyed by X (the
// natural leading field both same-generation joins below need).
type parentPair struct{ Parent, Child int }

func (p parentPair) Compare(other parentPair) int {
	if p.Parent != other.Parent {
		if p.Parent < other.Parent {
			return -1
		}
		return 1
	}
	if p.Child != other.Child {
		if p.Child < other.Child {
			return -1
		}
		return 1
	}
	return 0
}

type sgPair struct{ X, Y int }

func (s sgPair) Compare(other sgPair) int {
	if s.X != other.X {
		if s.X < other.X {
			return -1
		}
		return 1
	}
	if s.Y != other.Y {
		if s.Y < other.Y {
			return -1
		}
		return 1
	}
	return 0
}

// tempYpX stages parent(Xp,X) ⋈ sg(Xp,Yp), re-keyed by Yp so it can be
// joined a second time against parent(Yp,Y).
type tempYpX struct{ Yp, X int }

func (tp tempYpX) Compare(other tempYpX) int {
	if tp.Yp != other.Yp {
		if tp.Yp < other.Yp {
			return -1
		}
		return 1
	}
	if tp.X != other.X {
		if tp.X < other.X {
			return -1
		}
		return 1
	}
	return 0
}

// TestIntegrationSameGenerationOverSmallTree computes sg(X,X) for every
// node, and sg(X,Y) :- parent(Xp,X), parent(Yp,Y), sg(Xp,Yp), via two
// chained merge-joins through an intermediate temp relation — the idiom
// any binary-join engine needs for a rule with more than two body atoms.
func TestIntegrationSameGenerationOverSmallTree(t *testing.T) {
	ctx := zodd.NewContext()
	it := variable.NewIteration(ctx)
	parent := variable.NewVariableIn[parentPair](it)
	sg := variable.NewVariableIn[sgPair](it)
	temp := variable.NewVariableIn[tempYpX](it)

	require.NoError(t, parent.InsertSequence([]parentPair{{1, 2}, {1, 3}, {2, 4}, {2, 5}}))
	identity := make([]sgPair, 5)
	for i := range identity {
		identity[i] = sgPair{i + 1, i + 1}
	}
	require.NoError(t, sg.InsertSequence(identity))

	changed, err := it.Changed()
	require.NoError(t, err)
	for changed {
		require.NoError(t, join.JoinInto(ctx, parent, sg,
			func(p parentPair) int { return p.Parent },
			func(s sgPair) int { return s.X },
			func(p parentPair, s sgPair) tempYpX { return tempYpX{Yp: s.Y, X: p.Child} },
			temp,
		))
		require.NoError(t, join.JoinInto(ctx, temp, parent,
			func(tp tempYpX) int { return tp.Yp },
			func(p parentPair) int { return p.Parent },
			func(tp tempYpX, p parentPair) sgPair { return sgPair{X: tp.X, Y: p.Child} },
			sg,
		))
		changed, err = it.Changed()
		require.NoError(t, err)
	}

	result, err := sg.Complete()
	require.NoError(t, err)
	want := []sgPair{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5},
		{2, 3}, {3, 2}, {4, 5}, {5, 4},
	}
	assert.ElementsMatch(t, want, result.Elements())
}

type salesRecord struct{ Region, Amount int }

func (s salesRecord) Compare(other salesRecord) int {
	if s.Region != other.Region {
		if s.Region < other.Region {
			return -1
		}
		return 1
	}
	if s.Amount != other.Amount {
		if s.Amount < other.Amount {
			return -1
		}
		return 1
	}
	return 0
}

// TestIntegrationGroupSumAggregate sums amounts per region.
func TestIntegrationGroupSumAggregate(t *testing.T) {
	ctx := zodd.NewContext()
	rel, err := relation.FromSequence(ctx, []salesRecord{{1, 10}, {1, 20}, {2, 5}})
	require.NoError(t, err)

	groups, err := aggregate.GroupBy(ctx, rel,
		func(s salesRecord) int { return s.Region },
		0,
		func(acc int, s salesRecord) int { return acc + s.Amount },
	)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]aggregate.Group[int, int]{{Key: 1, Value: 30}, {Key: 2, Value: 5}},
		groups.Elements())
}

type prefixInt int

func (p prefixInt) Compare(other prefixInt) int {
	switch {
	case p < other:
		return -1
	case p > other:
		return 1
	default:
		return 0
	}
}

// TestIntegrationLeapfrogMultiWayIntersection joins a prefix source against
// three key-value relations; only the key/value pair present in all three
// survives.
func TestIntegrationLeapfrogMultiWayIntersection(t *testing.T) {
	ctx := zodd.NewContext()

	mk := func(xs ...[2]int) relation.Relation[leapfrog.Pair[int, int]] {
		pairs := make([]leapfrog.Pair[int, int], len(xs))
		for i, x := range xs {
			pairs[i] = leapfrog.Pair[int, int]{Key: x[0], Val: x[1]}
		}
		r, err := relation.FromSequence(ctx, pairs)
		require.NoError(t, err)
		return r
	}

	source := variable.New[prefixInt](ctx)
	require.NoError(t, source.InsertSequence([]prefixInt{1, 2, 3, 4}))
	_, err := source.Changed()
	require.NoError(t, err)

	r1 := mk([2]int{1, 100}, [2]int{2, 200}, [2]int{3, 300}, [2]int{4, 400})
	r2 := mk([2]int{1, 100}, [2]int{2, 200}, [2]int{4, 999})
	r3 := mk([2]int{2, 200}, [2]int{3, 300})
	keyOf := func(p prefixInt) int { return int(p) }

	out := variable.New[leapfrog.Pair[int, int]](ctx)
	err = leapfrog.ExtendInto(ctx, source, []leapfrog.Leaper[prefixInt, int]{
		&leapfrog.ExtendWith[prefixInt, int, int]{Rel: r1, KeyOf: keyOf},
		&leapfrog.ExtendWith[prefixInt, int, int]{Rel: r2, KeyOf: keyOf},
		&leapfrog.ExtendWith[prefixInt, int, int]{Rel: r3, KeyOf: keyOf},
	}, func(p prefixInt, v int) leapfrog.Pair[int, int] {
		return leapfrog.Pair[int, int]{Key: int(p), Val: v}
	}, out)
	require.NoError(t, err)

	changed, err := out.Changed()
	require.NoError(t, err)
	require.True(t, changed)
	assert.ElementsMatch(t, []leapfrog.Pair[int, int]{{Key: 2, Val: 200}}, out.Recent().Elements())
}

type persistRecord struct{ A, B int32 }

func (p persistRecord) Compare(other persistRecord) int {
	if p.A != other.A {
		if p.A < other.A {
			return -1
		}
		return 1
	}
	if p.B != other.B {
		if p.B < other.B {
			return -1
		}
		return 1
	}
	return 0
}

// TestIntegrationPersistenceRoundTripAndFailureCases checks a Save/Load
// round trip plus the format's validation failure modes.
func TestIntegrationPersistenceRoundTripAndFailureCases(t *testing.T) {
	ctx := zodd.NewContext()

	t.Run("round trip sorts on load", func(t *testing.T) {
		r, err := relation.FromSequence(ctx, []persistRecord{{2, 20}, {1, 10}, {3, 30}})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, relation.Save(&buf, r))

		loaded, err := relation.Load[persistRecord](ctx, &buf)
		require.NoError(t, err)
		assert.Equal(t,
			[]persistRecord{{1, 10}, {2, 20}, {3, 30}},
			loaded.Elements())
	})

	t.Run("bad magic", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("BADMAGC")
		buf.WriteByte(1)
		buf.Write(make([]byte, 8))
		_, err := relation.Load[persistRecord](ctx, &buf)
		assert.ErrorIs(t, err, zodd.ErrInvalidFormat)
	})

	t.Run("bad version", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("ZODDREL")
		buf.WriteByte(2)
		buf.Write(make([]byte, 8))
		_, err := relation.Load[persistRecord](ctx, &buf)
		assert.ErrorIs(t, err, zodd.ErrUnsupportedVersion)
	})

	t.Run("length over limit", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("ZODDREL")
		buf.WriteByte(1)
		length := make([]byte, 8)
		length[0] = 2
		buf.Write(length)
		_, err := relation.LoadWithLimit[persistRecord](ctx, &buf, 1)
		assert.ErrorIs(t, err, zodd.ErrTooLarge)
	})
}

type keyVal struct{ K, V int }

func (kv keyVal) Compare(other keyVal) int {
	if kv.K != other.K {
		if kv.K < other.K {
			return -1
		}
		return 1
	}
	if kv.V != other.V {
		if kv.V < other.V {
			return -1
		}
		return 1
	}
	return 0
}

// TestIntegrationAntiJoin keeps only the input tuples whose key is absent
// from the filter's full tuple set.
func TestIntegrationAntiJoin(t *testing.T) {
	ctx := zodd.NewContext()

	input := variable.New[keyVal](ctx)
	require.NoError(t, input.InsertSequence([]keyVal{{1, 10}, {2, 20}, {3, 30}}))
	_, err := input.Changed()
	require.NoError(t, err)

	filter := variable.New[keyVal](ctx)
	require.NoError(t, filter.InsertSequence([]keyVal{{1, 100}, {3, 300}}))
	_, err = filter.Changed()
	require.NoError(t, err)

	out := variable.New[keyVal](ctx)
	err = join.JoinAnti(ctx, input, filter,
		func(kv keyVal) int { return kv.K },
		func(kv keyVal) int { return kv.K },
		func(kv keyVal) keyVal { return kv },
		out,
	)
	require.NoError(t, err)

	changed, err := out.Changed()
	require.NoError(t, err)
	require.True(t, changed)
	assert.ElementsMatch(t, []keyVal{{2, 20}}, out.Recent().Elements())
}
