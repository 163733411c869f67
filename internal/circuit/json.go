package circuit

import (
	"encoding/json"
	"fmt"
)

type gateRecord struct {
	Kind   string    `json:"kind"`
	Name   string    `json:"name"`
	Params []float64 `json:"params,omitempty"`
	Qubits []int     `json:"qubits"`
	Clbit  *int      `json:"clbit,omitempty"`
}

type circuitRecord struct {
	Name      string       `json:"name"`
	NumQubits int          `json:"num_qubits"`
	NumClbits int          `json:"num_clbits"`
	Gates     []gateRecord `json:"gates"`
}

// MarshalJSON encodes the circuit as a header plus ordered gate records.
func (c *Circuit) MarshalJSON() ([]byte, error) {
	rec := circuitRecord{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		NumClbits: c.NumClbits,
		Gates:     make([]gateRecord, 0, len(c.Gates)),
	}
	for _, g := range c.Gates {
		gr := gateRecord{
			Kind:   g.Kind.String(),
			Name:   g.Name,
			Params: g.Params,
			Qubits: g.Qubits,
		}
		if g.Kind == KindMeasure {
			clbit := g.Clbit
			gr.Clbit = &clbit
		}
		rec.Gates = append(rec.Gates, gr)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON decodes a circuit and re-validates every gate record.
func (c *Circuit) UnmarshalJSON(data []byte) error {
	var rec circuitRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.NumQubits < 0 || rec.NumClbits < 0 {
		return fmt.Errorf("%w: negative register size", ErrIndex)
	}

	out := New(rec.NumQubits, rec.NumClbits, rec.Name)
	for i, gr := range rec.Gates {
		kind, err := ParseKind(gr.Kind)
		if err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
		registered, _, ok := Lookup(gr.Name)
		if !ok || registered != kind {
			return fmt.Errorf("gate %d: %w: %s as %s", i, ErrUnknownGate, gr.Name, gr.Kind)
		}
		g := Gate{Kind: kind, Name: gr.Name, Params: gr.Params, Qubits: gr.Qubits}
		if gr.Clbit != nil {
			g.Clbit = *gr.Clbit
		}
		if err := out.Append(g); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	*c = *out
	return nil
}
