package circuit

import "errors"

var (
	// ErrIndex is returned when a gate operand references an undeclared qubit or classical bit,
	// or when the operand list does not fit the gate's shape.
	ErrIndex = errors.New("index out of range")

	// ErrDimensionMismatch is returned when composing circuits of different widths.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrArity is returned when a registered gate carries the wrong number of parameters.
	ErrArity = errors.New("wrong parameter count")

	ErrUnknownGate   = errors.New("unknown gate")
	ErrNotInvertible = errors.New("circuit is not invertible")
)
