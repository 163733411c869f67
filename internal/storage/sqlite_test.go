package storage

import (
	"context"
	"path/filepath"
	"testing"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CircuitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bell := circuit.New(2, 2, "bell").MustAppend(
		circuit.H(0),
		circuit.CX(0, 1),
		circuit.Measure(0, 0),
		circuit.Measure(1, 1),
	)
	id, err := store.SaveCircuit(ctx, bell)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := store.GetCircuit(ctx, id)
	require.NoError(t, err)
	assert.True(t, bell.Equal(got))

	got, err = store.GetCircuitByName(ctx, "bell")
	require.NoError(t, err)
	assert.True(t, bell.Equal(got))

	// Re-saving under the same name replaces the body and keeps the ID.
	bigger := bell.Clone().MustAppend(circuit.X(1))
	again, err := store.SaveCircuit(ctx, bigger)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	infos, err := store.ListCircuits(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "bell", infos[0].Name)
	assert.Equal(t, 5, infos[0].Size)
	assert.Equal(t, 2, infos[0].NumQubits)
}

func TestSQLiteStore_ListOrderAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	idB, err := store.SaveCircuit(ctx, circuit.New(1, 0, "b").MustAppend(circuit.H(0)))
	require.NoError(t, err)
	_, err = store.SaveCircuit(ctx, circuit.New(1, 0, "a"))
	require.NoError(t, err)

	infos, err := store.ListCircuits(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, "b", infos[1].Name)

	require.NoError(t, store.DeleteCircuit(ctx, idB))
	_, err = store.GetCircuit(ctx, idB)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteCircuit(ctx, idB), ErrNotFound)

	_, err = store.GetCircuitByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.SaveCircuit(ctx, circuit.New(1, 0, ""))
	assert.Error(t, err)
}

func TestSQLiteStore_CouplingMaps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	line, err := graph.FromPairs([][2]int{{0, 1}, {1, 2}, {2, 3}})
	require.NoError(t, err)
	require.NoError(t, store.SaveCouplingMap(ctx, "line4", line))

	ring, err := graph.FromPairs([][2]int{{0, 1}, {1, 2}, {2, 0}})
	require.NoError(t, err)
	require.NoError(t, store.SaveCouplingMap(ctx, "ring3", ring))

	got, err := store.GetCouplingMap(ctx, "line4")
	require.NoError(t, err)
	assert.Equal(t, 4, got.N)
	assert.Equal(t, line.Edges, got.Edges)
	assert.Equal(t, []int{0, 2}, got.Neighbors(1))

	names, err := store.ListCouplingMaps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"line4", "ring3"}, names)

	_, err = store.GetCouplingMap(ctx, "heavy-hex")
	assert.ErrorIs(t, err, ErrNotFound)
}
