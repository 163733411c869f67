// Package analysis measures circuits and summarises timing samples.
package analysis

import (
	"math"

	"qcirc/internal/circuit"
)

// Metrics are the structural figures of one circuit.
type Metrics struct {
	Name       string         `json:"name"`
	Depth      int            `json:"depth"`
	Width      int            `json:"width"`
	Size       int            `json:"size"`
	NumQubits  int            `json:"num_qubits"`
	NumClbits  int            `json:"num_clbits"`
	GateCounts map[string]int `json:"gate_counts"`
	NonLocal   int            `json:"nonlocal_gates"`
}

// Measure computes the metrics of c.
func Measure(c *circuit.Circuit) Metrics {
	return Metrics{
		Name:       c.Name,
		Depth:      c.Depth(),
		Width:      c.Width(),
		Size:       c.Size(),
		NumQubits:  c.NumQubits,
		NumClbits:  c.NumClbits,
		GateCounts: c.CountOps(),
		NonLocal:   c.NumNonLocal(),
	}
}

// Fields names the numeric metrics in report order.
var Fields = []string{"depth", "width", "size", "num_qubits", "num_clbits", "nonlocal_gates"}

// Value returns the numeric metric called field, or false for an unknown name.
func (m Metrics) Value(field string) (int, bool) {
	switch field {
	case "depth":
		return m.Depth, true
	case "width":
		return m.Width, true
	case "size":
		return m.Size, true
	case "num_qubits":
		return m.NumQubits, true
	case "num_clbits":
		return m.NumClbits, true
	case "nonlocal_gates":
		return m.NonLocal, true
	}
	return 0, false
}

// Delta compares one metric between a base and another circuit.
type Delta struct {
	Field string
	Base  int
	Other int
	Diff  int
	// Ratio is Other/Base, +Inf when Base is zero.
	Ratio float64
}

// Comparison holds a Delta for every numeric metric, in Fields order.
type Comparison struct {
	Base   Metrics
	Other  Metrics
	Deltas []Delta
}

// Get returns the delta for field.
func (c Comparison) Get(field string) (Delta, bool) {
	for _, d := range c.Deltas {
		if d.Field == field {
			return d, true
		}
	}
	return Delta{}, false
}

// Compare measures both circuits and reports other relative to base.
func Compare(base, other *circuit.Circuit) Comparison {
	return CompareMetrics(Measure(base), Measure(other))
}

// CompareMetrics is Compare over precomputed metrics.
func CompareMetrics(base, other Metrics) Comparison {
	out := Comparison{Base: base, Other: other, Deltas: make([]Delta, 0, len(Fields))}
	for _, f := range Fields {
		b, _ := base.Value(f)
		o, _ := other.Value(f)
		d := Delta{Field: f, Base: b, Other: o, Diff: o - b, Ratio: math.Inf(1)}
		if b != 0 {
			d.Ratio = float64(o) / float64(b)
		}
		out.Deltas = append(out.Deltas, d)
	}
	return out
}
