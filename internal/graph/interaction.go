package graph

import "qcirc/internal/circuit"

// Interaction builds the weighted interaction graph of c: one vertex per qubit and an edge for
// every pair of qubits that share a multi-qubit gate, weighted by how many such gates they share.
// Barriers are ignored; a toffoli contributes all three of its pairs.
func Interaction(c *circuit.Circuit) *Graph {
	g := New(c.NumQubits)
	for _, gate := range c.Gates {
		if gate.IsDirective() || len(gate.Qubits) < 2 {
			continue
		}
		for i := 0; i < len(gate.Qubits); i++ {
			for j := i + 1; j < len(gate.Qubits); j++ {
				// operands were validated by Append
				_ = g.AddEdge(E(gate.Qubits[i], gate.Qubits[j]))
			}
		}
	}
	return g
}
