package sim

import (
	"context"
	"testing"

	"qcirc/internal/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasisSimulator_Evolve(t *testing.T) {
	s := NewBasisSimulator()
	ctx := context.Background()

	c := circuit.New(3, 3, "perm").MustAppend(
		circuit.X(0),
		circuit.CX(0, 1),
		circuit.CCX(0, 1, 2),
		circuit.Swap(0, 2),
		circuit.Barrier(0, 1, 2),
		circuit.Measure(0, 0), circuit.Measure(1, 1), circuit.Measure(2, 2),
	)

	qubits, clbits, err := s.Evolve(ctx, c, []bool{false, false, false})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, qubits)
	assert.Equal(t, "111", BitString(clbits))

	qubits, _, err = s.Evolve(ctx, c, []bool{true, false, false})
	require.NoError(t, err)
	// x clears q0, so neither control fires; swap then moves q2's 0 into q0.
	assert.Equal(t, []bool{false, false, false}, qubits)
}

func TestBasisSimulator_Run(t *testing.T) {
	s := NewBasisSimulator()
	c := circuit.New(2, 2, "bell-ish").MustAppend(circuit.X(1), circuit.Measure(0, 0), circuit.Measure(1, 1))

	counts, err := s.Run(context.Background(), c, 100)
	require.NoError(t, err)
	assert.Equal(t, Counts{"01": 100}, counts)
	assert.Equal(t, 100, counts.Total())

	_, err = s.Run(context.Background(), c, 0)
	assert.Error(t, err)
}

func TestBasisSimulator_RejectsNonPermutationGates(t *testing.T) {
	s := NewBasisSimulator()
	c := circuit.New(1, 0, "h").MustAppend(circuit.H(0))
	_, _, err := s.Evolve(context.Background(), c, []bool{false})
	assert.ErrorIs(t, err, ErrUnsupportedGate)

	_, _, err = s.Evolve(context.Background(), c, []bool{false, false})
	assert.ErrorIs(t, err, circuit.ErrDimensionMismatch)
}

func TestFixedRunner(t *testing.T) {
	f := &FixedRunner{Counts: Counts{"00": 3, "11": 1}}
	out, err := f.Run(context.Background(), circuit.New(2, 2, "any"), 4)
	require.NoError(t, err)
	out["00"] = 0
	assert.Equal(t, 3, f.Counts["00"], "returned histogram must be a copy")
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, []string{"00", "11"}, f.Counts.Bitstrings())
}
