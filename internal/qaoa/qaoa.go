// Package qaoa builds depth-1 QAOA MaxCut circuits and scores their measurement histograms.
package qaoa

import (
	"errors"
	"fmt"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/sim"
)

var (
	ErrEmptyInput  = errors.New("empty measurement histogram")
	ErrZeroOptimum = errors.New("classical optimum is zero")
	ErrBadCounts   = errors.New("malformed measurement histogram")
)

// CreateAnsatz builds the one-layer MaxCut ansatz on numQubits qubits. Each weighted edge (u, v, w)
// becomes a controlled phase of -2γw plus phases of γw on both endpoints, which together give the
// states where u and v differ a relative phase of e^{iγw}.
func CreateAnsatz(numQubits int, edges []graph.Edge, gamma, beta float64) (*circuit.Circuit, error) {
	c := circuit.New(numQubits, numQubits, "qaoa")
	all := make([]int, numQubits)
	for q := range all {
		all[q] = q
		if err := c.Append(circuit.H(q)); err != nil {
			return nil, err
		}
	}
	if numQubits > 0 {
		if err := c.Append(circuit.Barrier(all...)); err != nil {
			return nil, err
		}
	}

	for i, e := range edges {
		angle := gamma * e.Weight
		err := c.AppendAll(
			circuit.CP(-2*angle, e.A, e.B),
			circuit.P(angle, e.A),
			circuit.P(angle, e.B),
		)
		if err != nil {
			return nil, fmt.Errorf("edge %d (%d-%d): %w", i, e.A, e.B, err)
		}
	}

	if numQubits > 0 {
		if err := c.Append(circuit.Barrier(all...)); err != nil {
			return nil, err
		}
	}
	for q := 0; q < numQubits; q++ {
		if err := c.Append(circuit.RX(2*beta, q)); err != nil {
			return nil, err
		}
	}
	for q := 0; q < numQubits; q++ {
		if err := c.Append(circuit.Measure(q, q)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CutValue sums the weights of edges whose endpoints differ in bitstring. Character i of the
// bitstring is the value of vertex i and must be '0' or '1'.
func CutValue(bitstring string, edges []graph.Edge) (float64, error) {
	for i := 0; i < len(bitstring); i++ {
		if bitstring[i] != '0' && bitstring[i] != '1' {
			return 0, fmt.Errorf("%w: bitstring %q has %q at %d", ErrBadCounts, bitstring, bitstring[i], i)
		}
	}
	cut := 0.0
	for _, e := range edges {
		if e.A < 0 || e.B < 0 || e.A >= len(bitstring) || e.B >= len(bitstring) {
			return 0, fmt.Errorf("%w: edge %d-%d outside bitstring %q", circuit.ErrIndex, e.A, e.B, bitstring)
		}
		if bitstring[e.A] != bitstring[e.B] {
			cut += e.Weight
		}
	}
	return cut, nil
}

// Expectation is the shot-weighted mean cut value of a histogram. Negative counts are rejected.
func Expectation(counts sim.Counts, edges []graph.Edge) (float64, error) {
	for bits, n := range counts {
		if n < 0 {
			return 0, fmt.Errorf("%w: %q has count %d", ErrBadCounts, bits, n)
		}
	}
	total := counts.Total()
	if total <= 0 {
		return 0, ErrEmptyInput
	}
	sum := 0.0
	for _, bits := range counts.Bitstrings() {
		cut, err := CutValue(bits, edges)
		if err != nil {
			return 0, err
		}
		sum += cut * float64(counts[bits])
	}
	return sum / float64(total), nil
}
