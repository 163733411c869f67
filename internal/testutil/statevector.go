// Package testutil holds dense state-vector helpers used by tests to check that circuit rewrites
// preserve behaviour. It is only practical for a handful of qubits.
package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"qcirc/internal/circuit"

	"github.com/stretchr/testify/require"
)

const MaxQubits = 10

// Apply evolves state (qubit q is bit q of the basis index) through the unitary gates of c.
// Measurements and barriers are skipped.
func Apply(c *circuit.Circuit, state []complex128) error {
	if len(state) != 1<<c.NumQubits {
		return fmt.Errorf("%w: state has %d amplitudes for %d qubits", circuit.ErrDimensionMismatch, len(state), c.NumQubits)
	}
	for _, g := range c.Gates {
		switch g.Kind {
		case circuit.KindSingle:
			m, err := g.Matrix()
			if err != nil {
				return err
			}
			apply1(state, m, g.Target(), 0)
		case circuit.KindControlled:
			m, err := g.Matrix()
			if err != nil {
				return err
			}
			apply1(state, m, g.Target(), 1<<g.Control())
		case circuit.KindToffoli:
			x, _ := circuit.NamedMatrix("x", nil)
			apply1(state, x, g.Target(), 1<<g.Qubits[0]|1<<g.Qubits[1])
		case circuit.KindSwap:
			a, b := g.Qubits[0], g.Qubits[1]
			for i := range state {
				if i>>a&1 == 1 && i>>b&1 == 0 {
					j := i ^ (1 << a) ^ (1 << b)
					state[i], state[j] = state[j], state[i]
				}
			}
		case circuit.KindMeasure, circuit.KindBarrier:
		default:
			return fmt.Errorf("%w: %s", circuit.ErrUnknownGate, g.Kind)
		}
	}
	return nil
}

// apply1 applies m to target on every basis pair whose control bits are all set.
func apply1(state []complex128, m circuit.Matrix2, target, controls int) {
	bit := 1 << target
	for i := range state {
		if i&bit != 0 || i&controls != controls {
			continue
		}
		j := i | bit
		a, b := state[i], state[j]
		state[i] = m[0][0]*a + m[0][1]*b
		state[j] = m[1][0]*a + m[1][1]*b
	}
}

// Unitary returns the full matrix of c; column k is the image of basis state k.
func Unitary(c *circuit.Circuit) ([][]complex128, error) {
	if c.NumQubits > MaxQubits {
		return nil, fmt.Errorf("unitary of %d qubits is too large", c.NumQubits)
	}
	dim := 1 << c.NumQubits
	cols := make([][]complex128, dim)
	for k := 0; k < dim; k++ {
		col := make([]complex128, dim)
		col[k] = 1
		if err := Apply(c, col); err != nil {
			return nil, err
		}
		cols[k] = col
	}
	return cols, nil
}

// Probabilities returns |amplitude|² of every basis state after running c on |0…0⟩.
func Probabilities(c *circuit.Circuit) ([]float64, error) {
	state := make([]complex128, 1<<c.NumQubits)
	state[0] = 1
	if err := Apply(c, state); err != nil {
		return nil, err
	}
	out := make([]float64, len(state))
	for i, a := range state {
		out[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return out, nil
}

// EquivalentUpToPhase reports whether two circuits implement the same unitary modulo a global
// phase.
func EquivalentUpToPhase(a, b *circuit.Circuit, tol float64) (bool, error) {
	if a.NumQubits != b.NumQubits {
		return false, nil
	}
	ua, err := Unitary(a)
	if err != nil {
		return false, err
	}
	ub, err := Unitary(b)
	if err != nil {
		return false, err
	}
	var phase complex128
	for k := 0; k < len(ub) && phase == 0; k++ {
		for i := range ub[k] {
			if cmplx.Abs(ub[k][i]) > tol {
				phase = ua[k][i] / ub[k][i]
				break
			}
		}
	}
	if phase == 0 || math.Abs(cmplx.Abs(phase)-1) > tol {
		return false, nil
	}
	for k := range ua {
		for i := range ua[k] {
			if cmplx.Abs(ua[k][i]-phase*ub[k][i]) > tol {
				return false, nil
			}
		}
	}
	return true, nil
}

// RequireEquivalent fails the test unless want and got agree up to global phase.
func RequireEquivalent(t testing.TB, want, got *circuit.Circuit) {
	t.Helper()
	ok, err := EquivalentUpToPhase(want, got, 1e-7)
	require.NoError(t, err)
	require.True(t, ok, "circuits differ:\nwant %v\ngot  %v", want.Gates, got.Gates)
}
