package sim

import (
	"context"
	"fmt"
	"sync/atomic"

	"qcirc/internal/circuit"
)

// BasisSimulator evolves a single computational basis state through a circuit made of
// permutation gates (x, cx, ccx, swap, id) plus measurements and barriers. Such circuits map
// basis states to basis states, so every shot yields the same outcome.
type BasisSimulator struct{}

// NewBasisSimulator creates a basis-state simulator.
func NewBasisSimulator() *BasisSimulator {
	return &BasisSimulator{}
}

// Evolve applies c to the basis state whose qubit i is initial[i] and returns the final qubit
// values and classical register.
func (s *BasisSimulator) Evolve(ctx context.Context, c *circuit.Circuit, initial []bool) ([]bool, []bool, error) {
	if len(initial) != c.NumQubits {
		return nil, nil, fmt.Errorf("%w: initial state has %d bits, circuit has %d qubits",
			circuit.ErrDimensionMismatch, len(initial), c.NumQubits)
	}
	qubits := append([]bool(nil), initial...)
	clbits := make([]bool, c.NumClbits)

	for i, g := range c.Gates {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		switch g.Kind {
		case circuit.KindSingle:
			switch g.Name {
			case "x":
				qubits[g.Target()] = !qubits[g.Target()]
			case "id":
			default:
				return nil, nil, fmt.Errorf("%w: gate %d (%s) does not preserve basis states", ErrUnsupportedGate, i, g.Name)
			}
		case circuit.KindControlled:
			if g.Name != "cx" {
				return nil, nil, fmt.Errorf("%w: gate %d (%s)", ErrUnsupportedGate, i, g.Name)
			}
			if qubits[g.Control()] {
				qubits[g.Target()] = !qubits[g.Target()]
			}
		case circuit.KindToffoli:
			if qubits[g.Qubits[0]] && qubits[g.Qubits[1]] {
				qubits[g.Target()] = !qubits[g.Target()]
			}
		case circuit.KindSwap:
			a, b := g.Qubits[0], g.Qubits[1]
			qubits[a], qubits[b] = qubits[b], qubits[a]
		case circuit.KindMeasure:
			clbits[g.Clbit] = qubits[g.Qubits[0]]
		case circuit.KindBarrier:
		default:
			return nil, nil, fmt.Errorf("%w: gate %d kind %s", ErrUnsupportedGate, i, g.Kind)
		}
	}
	return qubits, clbits, nil
}

// Run evolves the all-zero state and reports the classical register for every shot.
func (s *BasisSimulator) Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	_, clbits, err := s.Evolve(ctx, c, make([]bool, c.NumQubits))
	if err != nil {
		return nil, err
	}
	return Counts{BitString(clbits): shots}, nil
}

// FixedRunner returns the same histogram for every circuit. It stands in for a real backend.
type FixedRunner struct {
	Counts Counts
	calls  atomic.Int64
}

// Run returns a copy of the configured histogram.
func (f *FixedRunner) Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.calls.Add(1)
	out := make(Counts, len(f.Counts))
	for k, v := range f.Counts {
		out[k] = v
	}
	return out, nil
}

// Calls reports how many times Run was invoked.
func (f *FixedRunner) Calls() int {
	return int(f.calls.Load())
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error)

func (f RunnerFunc) Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	return f(ctx, c, shots)
}
