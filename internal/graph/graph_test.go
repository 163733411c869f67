package graph

import (
	"testing"

	"qcirc/internal/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPairs(t *testing.T) {
	g, err := FromPairs([][2]int{{0, 1}, {1, 2}, {2, 3}, {1, 0}})
	require.NoError(t, err)

	assert.Equal(t, 4, g.N)
	assert.Len(t, g.Edges, 3, "repeated pair is merged")
	assert.Equal(t, 2.0, g.Weight(0, 1))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.True(t, g.HasEdge(2, 1))
	assert.False(t, g.HasEdge(0, 3))
	assert.Equal(t, []Pair{{0, 1}, {1, 2}, {2, 3}}, g.Pairs())

	_, err = FromPairs([][2]int{{1, 1}})
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestParsePairs(t *testing.T) {
	pairs, err := ParsePairs("0-1, 1-2,2-3,")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, pairs)

	for _, bad := range []string{"0:1", "a-1", "0-b"} {
		_, err := ParsePairs(bad)
		assert.ErrorIs(t, err, ErrInvalidEdge, bad)
	}
}

func TestParseEdges(t *testing.T) {
	edges, err := ParseEdges("0-1:2.5, 1-2")
	require.NoError(t, err)
	assert.Equal(t, []Edge{{A: 0, B: 1, Weight: 2.5}, {A: 1, B: 2, Weight: 1}}, edges)

	for _, bad := range []string{"0-1:x", "0:1", "0-1-2", ":3"} {
		_, err := ParseEdges(bad)
		assert.ErrorIs(t, err, ErrInvalidEdge, bad)
	}
}

func TestGraph_Distances(t *testing.T) {
	g, err := FromPairs([][2]int{{0, 1}, {1, 2}, {2, 3}, {4, 5}})
	require.NoError(t, err)

	d := g.Distances()
	assert.Equal(t, []int{0, 1, 2, 3, Unreachable, Unreachable}, d[0])
	assert.Equal(t, 1, d[4][5])
	assert.Equal(t, 3, g.Diameter())

	assert.Equal(t, []int{0, 1, 2, 3}, g.ShortestPath(0, 3))
	assert.Equal(t, []int{3, 2, 1}, g.ShortestPath(3, 1))
	assert.Nil(t, g.ShortestPath(0, 5))
	assert.Nil(t, g.ShortestPath(0, 9))
}

func TestGraph_ShortestPathTies(t *testing.T) {
	ring, err := FromPairs([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Equal(t, []int{0, 1, 2}, ring.ShortestPath(0, 2))
		assert.Equal(t, []int{1, 0, 3}, ring.ShortestPath(1, 3))
	}
	assert.Equal(t, []int{0}, ring.ShortestPath(0, 0))
	assert.Equal(t, 2, ring.Degree(3))
	assert.Equal(t, 0, ring.Degree(7))
}

func TestGraph_Components(t *testing.T) {
	g, err := FromPairs([][2]int{{0, 1}, {3, 4}, {4, 5}})
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1}, {2}, {3, 4, 5}}, g.Components())
	assert.Equal(t, []int{3, 4, 5}, g.LargestComponent())
	assert.False(t, g.IsConnected())

	line, err := FromPairs([][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)
	assert.True(t, line.IsConnected())
	assert.Equal(t, DegreeStats{Min: 1, Max: 2, Mean: 4.0 / 3.0}, line.DegreeStats())
}

func TestInteraction(t *testing.T) {
	c := circuit.New(4, 1, "inter").MustAppend(
		circuit.H(0),
		circuit.CX(0, 1),
		circuit.CX(1, 0),
		circuit.CCX(0, 2, 3),
		circuit.Barrier(0, 1, 2, 3),
		circuit.Measure(3, 0),
	)
	g := Interaction(c)
	assert.Equal(t, 4, g.N)
	assert.Equal(t, 3.0, g.Weight(0, 1)+g.Weight(0, 2))
	assert.Equal(t, 2.0, g.Weight(0, 1))
	assert.Equal(t, 1.0, g.Weight(2, 3))
	assert.Zero(t, g.Weight(1, 3))
}
