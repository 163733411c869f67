// Package sim defines the simulator contract the generators and evaluators are handed, plus a
// deterministic basis-state simulator for permutation circuits and a fixed-output test double.
package sim

import (
	"context"
	"errors"
	"sort"
	"strings"

	"qcirc/internal/circuit"
)

// ErrUnsupportedGate is returned when a simulator cannot execute a gate.
var ErrUnsupportedGate = errors.New("gate not supported by simulator")

// Counts maps a measured bitstring to how often it was observed. Character i of a bitstring is
// classical bit i.
type Counts map[string]int

// Total is the number of shots the histogram represents.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Bitstrings returns the observed outcomes in lexical order.
func (c Counts) Bitstrings() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Runner executes a circuit for a number of shots and returns the measurement histogram.
type Runner interface {
	Run(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error)
}

// BitString renders bits as '0'/'1' characters, index i at position i.
func BitString(bits []bool) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
