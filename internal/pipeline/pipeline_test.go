package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/routing"
	"qcirc/internal/storage"
	"qcirc/internal/testutil"
	"qcirc/internal/transpile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCircuits() []*circuit.Circuit {
	return []*circuit.Circuit{
		circuit.New(3, 0, "ghz").MustAppend(circuit.H(0), circuit.CX(0, 1), circuit.CX(1, 2)),
		circuit.New(3, 0, "star").MustAppend(circuit.CX(0, 1), circuit.CX(0, 2), circuit.CX(1, 2), circuit.T(2)),
		circuit.New(2, 0, "swap").MustAppend(circuit.Swap(0, 1), circuit.S(0)),
	}
}

func requireBasis(t *testing.T, c *circuit.Circuit, basis []string) {
	t.Helper()
	target, err := transpile.NewTarget(basis)
	require.NoError(t, err)
	for _, g := range c.Gates {
		assert.True(t, target.Allows(g.Name), "gate %s outside basis %v", g, basis)
	}
}

func TestBatch_DecomposeOnly(t *testing.T) {
	in := sampleCircuits()
	b, err := NewBatch(Options{Level: 1, Workers: 2, TimingRuns: 3}, nil)
	require.NoError(t, err)

	results, err := b.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, results, len(in))

	for i, r := range results {
		assert.Equal(t, in[i].Name, r.Name, "results keep input order")
		requireBasis(t, r.Output, transpile.DefaultBasis)
		testutil.RequireEquivalent(t, in[i], r.Output)
		assert.Equal(t, 3, r.Timing.Runs)
		assert.Zero(t, r.Swaps)

		size, ok := r.Comparison.Get("size")
		require.True(t, ok)
		assert.Equal(t, r.After.Size-r.Before.Size, size.Diff)
	}
}

func TestBatch_Route(t *testing.T) {
	line, err := graph.FromPairs([][2]int{{0, 1}, {1, 2}, {2, 3}})
	require.NoError(t, err)

	in := sampleCircuits()
	b, err := NewBatch(Options{
		Basis:    []string{"cx", "u"},
		Level:    1,
		Coupling: line,
		Routing:  routing.Options{Layout: routing.LayoutDense, Seed: 1},
	}, nil)
	require.NoError(t, err)

	results, err := b.Run(context.Background(), in)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, 4, r.Output.NumQubits, "routed circuits span the coupling graph")
		require.NoError(t, routing.VerifyCoupling(r.Output, line), r.Name)
		requireBasis(t, r.Output, []string{"cx", "u"})
	}
}

func TestBatch_FailsFast(t *testing.T) {
	pair, err := graph.FromPairs([][2]int{{0, 1}})
	require.NoError(t, err)

	b, err := NewBatch(Options{Level: 1, Coupling: pair}, nil)
	require.NoError(t, err)

	_, err = b.Run(context.Background(), sampleCircuits())
	assert.ErrorIs(t, err, routing.ErrDisconnectedGraph)
	assert.ErrorContains(t, err, "circuit")

	_, err = NewBatch(Options{Level: 9}, nil)
	assert.ErrorIs(t, err, transpile.ErrInvalidLevel)
}

func TestBench_Run(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bell.qasm"), []byte(`OPENQASM 2.0;
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q -> c;
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tee.qasm"), []byte(`OPENQASM 2.0;
qreg q[3];
cx q[0],q[2];
cx q[1],q[2];
`), 0o644))

	ring, err := graph.FromPairs([][2]int{{0, 1}, {1, 2}, {2, 0}})
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "bench.db")
	var out bytes.Buffer
	bench := NewBench(root, Options{Level: 2, Coupling: ring})
	bench.DBPath = dbPath
	bench.CouplingName = "ring3"
	bench.Out = &out

	results, err := bench.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "bell", results[0].Name)
	assert.Equal(t, "tee", results[1].Name)
	assert.Contains(t, out.String(), "Loaded 2 benchmarks")
	assert.Contains(t, out.String(), "Stored 2 circuits")

	store, err := storage.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	infos, err := store.ListCircuits(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	names, err := store.ListCouplingMaps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ring3"}, names)
}

func TestBench_EmptyDir(t *testing.T) {
	var out bytes.Buffer
	bench := NewBench(t.TempDir(), Options{})
	bench.Out = &out

	results, err := bench.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Contains(t, out.String(), "No benchmarks found")
}
