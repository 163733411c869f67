// Package graph holds undirected vertex graphs: hardware coupling maps, circuit interaction
// graphs and weighted MaxCut problem graphs.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

var (
	ErrInvalidEdge = errors.New("invalid edge")
)

// Graph is an undirected graph over vertices 0..N-1.
type Graph struct {
	N     int
	Edges []Edge

	ug *simple.UndirectedGraph
	// seen dedups parallel edges; weights of repeated pairs accumulate.
	seen map[Pair]int
}

// New creates an empty graph with n vertices.
func New(n int) *Graph {
	ug := simple.NewUndirectedGraph()
	for v := 0; v < n; v++ {
		ug.AddNode(simple.Node(v))
	}
	return &Graph{
		N:    n,
		ug:   ug,
		seen: make(map[Pair]int),
	}
}

// FromPairs builds a coupling graph from an ordered list of undirected pairs. The vertex count is
// one more than the largest index seen.
func FromPairs(pairs [][2]int) (*Graph, error) {
	n := 0
	for _, p := range pairs {
		n = max(n, p[0]+1, p[1]+1)
	}
	g := New(n)
	for _, p := range pairs {
		if err := g.AddEdge(E(p[0], p[1])); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// FromEdges builds a graph with n vertices from weighted edges.
func FromEdges(n int, edges []Edge) (*Graph, error) {
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParsePairs reads a coupling map written as "0-1,1-2,2-3".
func ParsePairs(s string) ([][2]int, error) {
	var out [][2]int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		a, b, ok := strings.Cut(field, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not of the form a-b", ErrInvalidEdge, field)
		}
		x, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, field, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, field, err)
		}
		out = append(out, [2]int{x, y})
	}
	return out, nil
}

// ParseEdges reads weighted edges written as "0-1:1.5,1-2". A missing weight is 1.
func ParseEdges(s string) ([]Edge, error) {
	var out []Edge
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair, weight, hasWeight := strings.Cut(field, ":")
		pairs, err := ParsePairs(pair)
		if err != nil {
			return nil, err
		}
		if len(pairs) != 1 {
			return nil, fmt.Errorf("%w: %q has no vertex pair", ErrInvalidEdge, field)
		}
		e := E(pairs[0][0], pairs[0][1])
		if hasWeight {
			w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, field, err)
			}
			e.Weight = w
		}
		out = append(out, e)
	}
	return out, nil
}

// AddEdge links two distinct in-range vertices. Adding an existing pair again adds its weight to
// the stored edge.
func (g *Graph) AddEdge(e Edge) error {
	if e.A < 0 || e.B < 0 || e.A >= g.N || e.B >= g.N {
		return fmt.Errorf("%w: %d-%d outside 0..%d", ErrInvalidEdge, e.A, e.B, g.N-1)
	}
	if e.A == e.B {
		return fmt.Errorf("%w: self loop on %d", ErrInvalidEdge, e.A)
	}
	key := NewPair(e.A, e.B)
	if i, ok := g.seen[key]; ok {
		g.Edges[i].Weight += e.Weight
		return nil
	}
	g.seen[key] = len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.ug.SetEdge(g.ug.NewEdge(simple.Node(e.A), simple.Node(e.B)))
	return nil
}

// Neighbors returns the vertices adjacent to v in ascending order.
func (g *Graph) Neighbors(v int) []int {
	if v < 0 || v >= g.N {
		return nil
	}
	var out []int
	for _, n := range gonum.NodesOf(g.ug.From(int64(v))) {
		out = append(out, int(n.ID()))
	}
	sort.Ints(out)
	return out
}

// Degree returns the number of distinct neighbours of v.
func (g *Graph) Degree(v int) int {
	if v < 0 || v >= g.N {
		return 0
	}
	return g.ug.From(int64(v)).Len()
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.seen[NewPair(a, b)]
	return ok
}

// Weight returns the accumulated weight between a and b, or 0 if they are not adjacent.
func (g *Graph) Weight(a, b int) float64 {
	if i, ok := g.seen[NewPair(a, b)]; ok {
		return g.Edges[i].Weight
	}
	return 0
}

// Pairs returns the edge set as sorted unordered pairs.
func (g *Graph) Pairs() []Pair {
	out := make([]Pair, 0, len(g.Edges))
	for p := range g.seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// BFS returns hop distances from src to every vertex, Unreachable where no path exists.
func (g *Graph) BFS(src int) []int {
	dist := make([]int, g.N)
	for i := range dist {
		dist[i] = Unreachable
	}
	if src < 0 || src >= g.N {
		return dist
	}
	var bf traverse.BreadthFirst
	bf.Walk(g.ug, simple.Node(src), func(n gonum.Node, depth int) bool {
		dist[n.ID()] = depth
		return false
	})
	return dist
}

// Distances computes the all-pairs hop-distance matrix.
func (g *Graph) Distances() [][]int {
	out := make([][]int, g.N)
	for v := 0; v < g.N; v++ {
		out[v] = g.BFS(v)
	}
	return out
}

// ShortestPath returns a shortest path from a to b inclusive, or nil when b is unreachable. Among
// equal-length paths it takes the lowest-index neighbour at every step.
func (g *Graph) ShortestPath(a, b int) []int {
	if a < 0 || b < 0 || a >= g.N || b >= g.N {
		return nil
	}
	toB := g.BFS(b)
	if toB[a] == Unreachable {
		return nil
	}
	path := []int{a}
	for cur := a; cur != b; {
		for _, next := range g.Neighbors(cur) {
			if toB[next] == toB[cur]-1 {
				cur = next
				break
			}
		}
		path = append(path, cur)
	}
	return path
}

// Components returns connected components, each sorted, ordered by their smallest vertex.
func (g *Graph) Components() [][]int {
	var out [][]int
	for _, cc := range topo.ConnectedComponents(g.ug) {
		comp := make([]int, 0, len(cc))
		for _, n := range cc {
			comp = append(comp, int(n.ID()))
		}
		sort.Ints(comp)
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// LargestComponent returns the biggest connected component, the earliest one on ties.
func (g *Graph) LargestComponent() []int {
	var best []int
	for _, c := range g.Components() {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// IsConnected reports whether every vertex is reachable from vertex 0.
func (g *Graph) IsConnected() bool {
	return g.N == 0 || len(g.LargestComponent()) == g.N
}
