package qaoa

import (
	"context"
	"errors"
	"testing"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/sim"
	"qcirc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathEdges = []graph.Edge{graph.E(0, 1), graph.E(1, 2), graph.E(2, 3)}

func TestCreateAnsatz(t *testing.T) {
	c, err := CreateAnsatz(4, pathEdges, 0.5, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 4, c.NumQubits)
	assert.Equal(t, 4, c.NumClbits)
	assert.Equal(t, 21, c.Size())
	assert.Equal(t, map[string]int{"h": 4, "cp": 3, "p": 6, "rx": 4, "measure": 4}, c.CountOps())

	assert.Equal(t, circuit.CP(-1.0, 0, 1), c.Gates[5])
	assert.Equal(t, circuit.P(0.5, 0), c.Gates[6])
	assert.Equal(t, circuit.P(0.5, 1), c.Gates[7])
	assert.Equal(t, circuit.RX(2.0, 0), c.Gates[15])
	assert.Equal(t, circuit.Measure(3, 3), c.Gates[len(c.Gates)-1])
}

func TestCreateAnsatz_InvalidEdge(t *testing.T) {
	_, err := CreateAnsatz(3, []graph.Edge{graph.E(0, 3)}, 0.1, 0.2)
	assert.ErrorIs(t, err, circuit.ErrIndex)

	_, err = CreateAnsatz(3, []graph.Edge{graph.E(1, 1)}, 0.1, 0.2)
	assert.ErrorIs(t, err, circuit.ErrIndex)
}

func TestCreateAnsatz_EdgeOrderInvariance(t *testing.T) {
	edges := []graph.Edge{
		{A: 0, B: 1, Weight: 1.0},
		{A: 1, B: 2, Weight: 0.7},
		{A: 0, B: 3, Weight: 1.3},
		{A: 2, B: 3, Weight: 0.9},
	}
	reordered := []graph.Edge{edges[3], edges[1], edges[0], edges[2]}

	a, err := CreateAnsatz(4, edges, 0.8, 0.35)
	require.NoError(t, err)
	b, err := CreateAnsatz(4, reordered, 0.8, 0.35)
	require.NoError(t, err)

	pa, err := testutil.Probabilities(a)
	require.NoError(t, err)
	pb, err := testutil.Probabilities(b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, pa, pb, 1e-12)
	testutil.RequireEquivalent(t, a, b)
}

func TestExpectation(t *testing.T) {
	tests := []struct {
		name   string
		counts sim.Counts
		want   float64
	}{
		{name: "uniform assignments cut nothing", counts: sim.Counts{"0000": 500, "1111": 500}, want: 0.0},
		{name: "alternating assignment cuts every edge", counts: sim.Counts{"0101": 1000}, want: 3.0},
		{name: "mixed", counts: sim.Counts{"0101": 1, "0110": 1, "0000": 2}, want: 5.0 / 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expectation(tt.counts, pathEdges)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestExpectation_Errors(t *testing.T) {
	_, err := Expectation(sim.Counts{}, pathEdges)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Expectation(sim.Counts{"0000": 0}, pathEdges)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Expectation(sim.Counts{"01": 10}, pathEdges)
	assert.ErrorIs(t, err, circuit.ErrIndex)

	_, err = Expectation(sim.Counts{"0101": 10, "1010": -4}, pathEdges)
	assert.ErrorIs(t, err, ErrBadCounts)

	_, err = Expectation(sim.Counts{"01x1": 3}, pathEdges)
	assert.ErrorIs(t, err, ErrBadCounts)

	_, err = CutValue("0120", pathEdges)
	assert.ErrorIs(t, err, ErrBadCounts)
}

func TestClassicalMaxCut(t *testing.T) {
	sol, err := ClassicalMaxCut(pathEdges, 4)
	require.NoError(t, err)
	assert.Equal(t, Solution{Value: 3, Bitstring: "0101"}, sol)

	sol, err = ClassicalMaxCut(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, Solution{Value: 0, Bitstring: "00"}, sol)

	_, err = ClassicalMaxCut(pathEdges, 0)
	assert.Error(t, err)
}

func TestRandomGraph(t *testing.T) {
	a := RandomGraph(8, 0.4, 42)
	b := RandomGraph(8, 0.4, 42)
	assert.Equal(t, a, b)
	for _, e := range a {
		assert.Less(t, e.A, e.B)
		assert.GreaterOrEqual(t, e.Weight, 0.5)
		assert.Less(t, e.Weight, 1.5)
	}

	assert.Empty(t, RandomGraph(5, 0, 1))
	assert.Len(t, RandomGraph(5, 1, 1), 10)
}

func TestAnalyzeAccuracy(t *testing.T) {
	counts := sim.Counts{"0101": 600, "0110": 400}
	acc, err := AnalyzeAccuracy(counts, Solution{Value: 3, Bitstring: "0101"}, pathEdges)
	require.NoError(t, err)

	assert.Equal(t, 3.0, acc.BestCut)
	assert.InDelta(t, 1.0, acc.ApproximationRatio, 1e-12)
	assert.InDelta(t, 5.0/6.0, acc.AverageCutRatio, 1e-12)
	assert.InDelta(t, 2.6/3.0, acc.ExpectationRatio, 1e-12)
	assert.InDelta(t, 0.6, acc.SuccessProbability, 1e-12)

	_, err = AnalyzeAccuracy(sim.Counts{}, Solution{Value: 3}, pathEdges)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = AnalyzeAccuracy(counts, Solution{}, pathEdges)
	assert.ErrorIs(t, err, ErrZeroOptimum)
}

func TestEvaluator(t *testing.T) {
	runner := &sim.FixedRunner{Counts: sim.Counts{"0101": 1000}}
	e := NewEvaluator(runner, 0, nil)

	v, counts, err := e.Evaluate(context.Background(), 4, pathEdges, 0.3, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 1000, counts.Total())
	assert.Equal(t, 1, runner.Calls())
}

func TestEvaluator_Landscape(t *testing.T) {
	runner := &sim.FixedRunner{Counts: sim.Counts{"0101": 10, "0000": 10}}
	e := NewEvaluator(runner, 20, nil)

	gammas, betas := Grid(0, 1, 2), Grid(0, 0.5, 3)
	l, err := e.Landscape(context.Background(), 4, pathEdges, gammas, betas)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.5}, betas)
	require.Len(t, l.Values, 2)
	for _, row := range l.Values {
		assert.Equal(t, []float64{1.5, 1.5, 1.5}, row)
	}
	assert.Equal(t, 6, runner.Calls())

	g, b, v := l.Best()
	assert.Equal(t, 0.0, g)
	assert.Equal(t, 0.0, b)
	assert.Equal(t, 1.5, v)
}

func TestEvaluator_RunnerError(t *testing.T) {
	boom := errors.New("backend down")
	runner := sim.RunnerFunc(func(context.Context, *circuit.Circuit, int) (sim.Counts, error) {
		return nil, boom
	})
	e := NewEvaluator(runner, 10, nil)

	_, err := e.Landscape(context.Background(), 4, pathEdges, []float64{0.1}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, boom)
}
