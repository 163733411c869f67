// Package qec builds bit-flip repetition-code encoder and decoder circuits.
package qec

import "qcirc/internal/circuit"

const (
	SingleCodeQubits = 3

	DoubleDataQubits     = 5
	DoubleSyndromeQubits = 4
	DoubleCodeQubits     = DoubleDataQubits + DoubleSyndromeQubits
)

// CreateEncoder copies qubit 0 onto qubits 1 and 2.
func CreateEncoder() *circuit.Circuit {
	return circuit.New(SingleCodeQubits, 0, "encoder").MustAppend(
		circuit.CX(0, 1),
		circuit.CX(0, 2),
	)
}

// CreateSingleErrorDecoder recomputes the parities of qubits 1 and 2 against qubit 0 and then
// majority-votes with three Toffolis, each flipping a qubit only when the other two disagree with it.
// The recovered logical bit is left on qubit 0.
func CreateSingleErrorDecoder() *circuit.Circuit {
	return circuit.New(SingleCodeQubits, 0, "single_error_decoder").MustAppend(
		circuit.CX(0, 1),
		circuit.CX(0, 2),

		circuit.CCX(1, 2, 0),
		circuit.CCX(2, 0, 1),
		circuit.CCX(0, 1, 2),
	)
}

// CreateDoubleErrorDecoder decodes five data qubits (0-4) with four parity qubits (5-8), each
// parity qubit watching a neighbouring data pair. Corrections fire on overlapping parity pairs.
// The wiring is fixed; AnalyzeDoubleErrorDecoder reports which flip patterns it actually repairs.
func CreateDoubleErrorDecoder() *circuit.Circuit {
	return circuit.New(DoubleCodeQubits, 0, "double_error_decoder").MustAppend(
		circuit.CX(0, 5),
		circuit.CX(1, 5),
		circuit.CX(1, 6),
		circuit.CX(2, 6),
		circuit.CX(2, 7),
		circuit.CX(3, 7),
		circuit.CX(3, 8),
		circuit.CX(4, 8),

		circuit.CCX(5, 7, 1),
		circuit.CCX(6, 8, 3),
		circuit.CCX(5, 6, 0),
		circuit.CCX(6, 7, 2),
		circuit.CCX(7, 8, 4),
	)
}
