package graph

import "fmt"

// Edge is an undirected, optionally weighted connection between two vertices.
// Coupling maps ignore the weight.
type Edge struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	Weight float64 `json:"weight,omitempty"`
}

// E builds an edge with unit weight.
func E(a, b int) Edge {
	return Edge{A: a, B: b, Weight: 1}
}

// Pair is an unordered vertex pair with A <= B.
type Pair struct {
	A, B int
}

// NewPair orders a and b.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) String() string {
	return fmt.Sprintf("%d-%d", p.A, p.B)
}

// Less orders pairs by first then second vertex.
func (p Pair) Less(o Pair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// Unreachable is the distance reported between vertices in different components.
const Unreachable = -1
