package routing

import (
	"context"
	"testing"
	"time"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/sim"
	"qcirc/internal/transpile"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var pairs [][2]int
	for i := 0; i+1 < n; i++ {
		pairs = append(pairs, [2]int{i, i + 1})
	}
	g, err := graph.FromPairs(pairs)
	require.NoError(t, err)
	return g
}

// requireSamePermutation checks a cx/swap-only routed circuit against the original on every basis
// state, reading inputs through the initial layout and outputs through the final one.
func requireSamePermutation(t *testing.T, orig *circuit.Circuit, res *Result) {
	t.Helper()
	s := sim.NewBasisSimulator()
	ctx := context.Background()
	n := orig.NumQubits
	for x := 0; x < 1<<n; x++ {
		in := make([]bool, n)
		phys := make([]bool, res.Circuit.NumQubits)
		for i := 0; i < n; i++ {
			in[i] = x>>i&1 == 1
			phys[res.InitialLayout[i]] = in[i]
		}
		want, _, err := s.Evolve(ctx, orig, in)
		require.NoError(t, err)
		got, _, err := s.Evolve(ctx, res.Circuit, phys)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			require.Equal(t, want[i], got[res.FinalLayout[i]], "input %0*b logical %d", n, x, i)
		}
	}
}

func TestOptimizeLayout_LineNeedsNoSwaps(t *testing.T) {
	c := circuit.New(3, 0, "chain").MustAppend(circuit.CX(0, 1), circuit.CX(1, 2))

	res, err := OptimizeLayout(context.Background(), c, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)

	assert.Zero(t, res.Swaps)
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, 2, res.Size)
	assert.Equal(t, map[string]int{"cx": 2}, res.GateCounts)
	assert.Equal(t, Layout{0, 1, 2}, res.InitialLayout)
	require.NoError(t, VerifyCoupling(res.Circuit, line(t, 3)))
}

func TestOptimizeLayout_DisconnectedGraph(t *testing.T) {
	c := circuit.New(3, 0, "three").MustAppend(circuit.CX(0, 1), circuit.CX(1, 2))
	_, err := OptimizeLayout(context.Background(), c, [][2]int{{0, 1}})
	assert.ErrorIs(t, err, ErrDisconnectedGraph)

	split, err := graph.FromPairs([][2]int{{0, 1}, {2, 3}})
	require.NoError(t, err)
	r, err := NewRouter(DefaultOptions(), nil)
	require.NoError(t, err)
	_, err = r.Route(context.Background(), c, split)
	assert.ErrorIs(t, err, ErrDisconnectedGraph)
}

func TestRoute_InsertsSwaps(t *testing.T) {
	c := circuit.New(4, 0, "far").MustAppend(
		circuit.CX(0, 3),
		circuit.CX(1, 3),
		circuit.CX(0, 2),
		circuit.CX(2, 1),
		circuit.CX(3, 0),
	)
	for _, method := range []LayoutMethod{LayoutTrivial, LayoutDense, LayoutRandom} {
		t.Run(string(method), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Layout = method
			opts.Seed = 7
			r, err := NewRouter(opts, nil)
			require.NoError(t, err)

			coupling := line(t, 5)
			res, err := r.Route(context.Background(), c, coupling)
			require.NoError(t, err)

			require.NoError(t, VerifyCoupling(res.Circuit, coupling))
			require.NoError(t, res.InitialLayout.Validate(5))
			require.NoError(t, res.FinalLayout.Validate(5))
			assert.Equal(t, 5, res.Circuit.NumQubits)
			assert.Equal(t, 5+3*res.Swaps, res.GateCounts["cx"])
			requireSamePermutation(t, c, res)
		})
	}
}

func TestRoute_TrivialWithoutRefinementNeedsSwaps(t *testing.T) {
	opts := DefaultOptions()
	opts.Layout = LayoutTrivial
	opts.Iterations = 0
	r, err := NewRouter(opts, nil)
	require.NoError(t, err)

	c := circuit.New(4, 0, "ends").MustAppend(circuit.CX(0, 3))
	res, err := r.Route(context.Background(), c, line(t, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Swaps)
	assert.Equal(t, Layout{0, 1, 2, 3}, res.InitialLayout)
	// the first tie goes to the lowest pair (0,1); decay then steers the second swap to (2,3)
	assert.Equal(t, Layout{1, 0, 3, 2}, res.FinalLayout)
	requireSamePermutation(t, c, res)
}

func TestRoute_Deterministic(t *testing.T) {
	c := circuit.New(5, 0, "det").MustAppend(
		circuit.CX(0, 4), circuit.CX(1, 3), circuit.CX(4, 2), circuit.CX(0, 1), circuit.CX(3, 0),
	)
	coupling := line(t, 6)
	opts := DefaultOptions()
	opts.Layout = LayoutRandom
	opts.Seed = 1234

	var first *Result
	for i := 0; i < 3; i++ {
		r, err := NewRouter(opts, nil)
		require.NoError(t, err)
		res, err := r.Route(context.Background(), c, coupling)
		require.NoError(t, err)
		if first == nil {
			first = res
			continue
		}
		assert.True(t, first.Circuit.Equal(res.Circuit))
		assert.Equal(t, first.InitialLayout, res.InitialLayout)
		assert.Equal(t, first.Swaps, res.Swaps)
	}
}

func TestRoute_Budget(t *testing.T) {
	c := circuit.New(4, 0, "ends").MustAppend(circuit.CX(0, 3))

	opts := DefaultOptions()
	opts.Layout = LayoutTrivial
	opts.Iterations = 0
	opts.MaxSteps = 1
	r, err := NewRouter(opts, nil)
	require.NoError(t, err)
	_, err = r.Route(context.Background(), c, line(t, 4))
	assert.True(t, errors.Is(err, ErrRoutingBudgetExceeded), "got %v", err)

	opts.MaxSteps = 0
	r, err = NewRouter(opts, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = r.Route(ctx, c, line(t, 4))
	assert.ErrorIs(t, err, ErrRoutingBudgetExceeded)
}

func TestRoute_RejectsWideGates(t *testing.T) {
	c := circuit.New(3, 0, "toffoli").MustAppend(circuit.CCX(0, 1, 2))
	r, err := NewRouter(DefaultOptions(), nil)
	require.NoError(t, err)

	_, err = r.Route(context.Background(), c, line(t, 3))
	assert.ErrorIs(t, err, transpile.ErrUnsupportedGate)

	res, err := r.OptimizeLayout(context.Background(), c, line(t, 3))
	require.NoError(t, err)
	require.NoError(t, VerifyCoupling(res.Circuit, line(t, 3)))
	for name := range res.GateCounts {
		assert.Contains(t, []string{"cx", "u"}, name)
	}
}

func TestRoute_KeepsMeasurementsAndBarriers(t *testing.T) {
	c := circuit.New(3, 3, "measured").MustAppend(
		circuit.X(0),
		circuit.CX(0, 2),
		circuit.Barrier(0, 1, 2),
		circuit.Measure(0, 0), circuit.Measure(1, 1), circuit.Measure(2, 2),
	)
	opts := DefaultOptions()
	opts.Layout = LayoutTrivial
	opts.Iterations = 0
	r, err := NewRouter(opts, nil)
	require.NoError(t, err)

	res, err := r.Route(context.Background(), c, line(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, res.GateCounts["measure"])
	assert.Equal(t, 3, res.Circuit.NumClbits)

	counts, err := sim.NewBasisSimulator().Run(context.Background(), res.Circuit, 10)
	require.NoError(t, err)
	assert.Equal(t, sim.Counts{"101": 10}, counts)
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, Layout{0, 1}, trivialLayout(2, []int{0, 1, 2}))
	assert.Equal(t, Layout{3, 4}, trivialLayout(2, []int{3, 4, 5}))

	a := randomLayout(3, []int{0, 1, 2, 3, 4}, 99)
	b := randomLayout(3, []int{0, 1, 2, 3, 4}, 99)
	assert.Equal(t, a, b)
	require.NoError(t, a.Validate(5))

	assert.Error(t, Layout{0, 0}.Validate(2))
	assert.Error(t, Layout{0, 2}.Validate(2))
	assert.Equal(t, []int{1, -1, 0}, Layout{2, 0}.Inverse(3))

	c := circuit.New(3, 0, "chain").MustAppend(circuit.CX(0, 1), circuit.CX(1, 2))
	coupling := line(t, 3)
	dense := denseLayout(3, coupling.LargestComponent(), coupling, graph.Interaction(c), coupling.Distances())
	assert.Equal(t, Layout{0, 1, 2}, dense)

	_, err := ParseLayoutMethod("sabre")
	assert.Error(t, err)
	m, err := ParseLayoutMethod("")
	require.NoError(t, err)
	assert.Equal(t, LayoutDense, m)
}
