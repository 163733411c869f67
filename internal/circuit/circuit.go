package circuit

import (
	"fmt"
	"sort"
)

// Circuit is an ordered gate sequence over a fixed register of qubits and classical bits.
// It is mutated only through Append and Compose; components that receive a circuit treat it as
// read-only and work on a Clone when they need to change it.
type Circuit struct {
	Name      string
	NumQubits int
	NumClbits int
	// Gates is exported for reading. Writing to it directly skips operand validation, and the
	// metrics then ignore gates of unknown kind.
	Gates []Gate
}

// New creates an empty circuit.
func New(numQubits, numClbits int, name string) *Circuit {
	return &Circuit{
		Name:      name,
		NumQubits: numQubits,
		NumClbits: numClbits,
		Gates:     []Gate{},
	}
}

// Append validates g against the circuit's registers and adds it to the end.
func (c *Circuit) Append(g Gate) error {
	if err := c.check(g); err != nil {
		return err
	}
	c.Gates = append(c.Gates, g.Clone())
	return nil
}

// AppendAll appends gates in order, stopping at the first invalid one.
func (c *Circuit) AppendAll(gates ...Gate) error {
	for i, g := range gates {
		if err := c.Append(g); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

// MustAppend is Append for statically known wiring; it panics on an invalid gate.
func (c *Circuit) MustAppend(gates ...Gate) *Circuit {
	if err := c.AppendAll(gates...); err != nil {
		panic(err)
	}
	return c
}

func (c *Circuit) check(g Gate) error {
	if err := g.checkShape(); err != nil {
		return err
	}
	if kind, params, ok := Lookup(g.Name); ok {
		if kind != g.Kind {
			return fmt.Errorf("%w: %s is %s, not %s", ErrUnknownGate, g.Name, kind, g.Kind)
		}
		if len(g.Params) != params {
			return fmt.Errorf("%w: %s expects %d parameters, got %d", ErrArity, g.Name, params, len(g.Params))
		}
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= c.NumQubits {
			return fmt.Errorf("%w: %s uses qubit %d, circuit %q has %d", ErrIndex, g.Name, q, c.Name, c.NumQubits)
		}
	}
	if g.Kind == KindMeasure && (g.Clbit < 0 || g.Clbit >= c.NumClbits) {
		return fmt.Errorf("%w: measure writes clbit %d, circuit %q has %d", ErrIndex, g.Clbit, c.Name, c.NumClbits)
	}
	return nil
}

// Compose returns a new circuit running base followed by other.
func Compose(base, other *Circuit) (*Circuit, error) {
	if base.NumQubits != other.NumQubits || base.NumClbits != other.NumClbits {
		return nil, fmt.Errorf("%w: %q is %dq/%dc, %q is %dq/%dc", ErrDimensionMismatch,
			base.Name, base.NumQubits, base.NumClbits, other.Name, other.NumQubits, other.NumClbits)
	}
	out := base.Clone()
	for _, g := range other.Gates {
		out.Gates = append(out.Gates, g.Clone())
	}
	return out, nil
}

// Clone returns a deep copy.
func (c *Circuit) Clone() *Circuit {
	out := New(c.NumQubits, c.NumClbits, c.Name)
	out.Gates = make([]Gate, 0, len(c.Gates))
	for _, g := range c.Gates {
		out.Gates = append(out.Gates, g.Clone())
	}
	return out
}

// Depth is the length of the critical path through shared qubit and clbit dependencies.
// Barriers align the wires they span without adding a layer. Gates of unknown kind or with
// operands outside the registers are skipped.
func (c *Circuit) Depth() int {
	qubitLayer := make([]int, c.NumQubits)
	clbitLayer := make([]int, c.NumClbits)
	depth := 0

	for _, g := range c.Gates {
		if !c.inRange(g) {
			continue
		}
		switch g.Kind {
		case KindBarrier:
			level := 0
			for _, q := range g.Qubits {
				level = max(level, qubitLayer[q])
			}
			for _, q := range g.Qubits {
				qubitLayer[q] = level
			}
		case KindMeasure:
			layer := max(qubitLayer[g.Qubits[0]], clbitLayer[g.Clbit]) + 1
			qubitLayer[g.Qubits[0]] = layer
			clbitLayer[g.Clbit] = layer
			depth = max(depth, layer)
		case KindSingle, KindControlled, KindSwap, KindToffoli:
			layer := 0
			for _, q := range g.Qubits {
				layer = max(layer, qubitLayer[q])
			}
			layer++
			for _, q := range g.Qubits {
				qubitLayer[q] = layer
			}
			depth = max(depth, layer)
		}
	}
	return depth
}

func (c *Circuit) inRange(g Gate) bool {
	for _, q := range g.Qubits {
		if q < 0 || q >= c.NumQubits {
			return false
		}
	}
	if g.Kind == KindMeasure {
		return len(g.Qubits) == 1 && g.Clbit >= 0 && g.Clbit < c.NumClbits
	}
	return true
}

// Size counts operations, excluding barriers.
func (c *Circuit) Size() int {
	n := 0
	for _, g := range c.Gates {
		if !g.IsDirective() {
			n++
		}
	}
	return n
}

// CountOps tallies operations by name, excluding barriers, so that the values sum to Size.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Gates {
		if g.IsDirective() {
			continue
		}
		counts[g.Name]++
	}
	return counts
}

// Width is the total register size.
func (c *Circuit) Width() int {
	return c.NumQubits + c.NumClbits
}

// NumNonLocal counts operations acting on more than one qubit.
func (c *Circuit) NumNonLocal() int {
	n := 0
	for _, g := range c.Gates {
		if !g.IsDirective() && len(g.Qubits) > 1 {
			n++
		}
	}
	return n
}

// SortedOps returns the gate names of CountOps in lexical order.
func SortedOps(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inverse returns the adjoint circuit. Measurements make a circuit non-invertible.
func (c *Circuit) Inverse() (*Circuit, error) {
	out := New(c.NumQubits, c.NumClbits, c.Name+"_dg")
	for i := len(c.Gates) - 1; i >= 0; i-- {
		inv, err := c.Gates[i].Inverse()
		if err != nil {
			return nil, err
		}
		out.Gates = append(out.Gates, inv)
	}
	return out, nil
}

// Equal reports whether both circuits have the same registers, name and gate sequence.
func (c *Circuit) Equal(o *Circuit) bool {
	if c.Name != o.Name || c.NumQubits != o.NumQubits || c.NumClbits != o.NumClbits {
		return false
	}
	if len(c.Gates) != len(o.Gates) {
		return false
	}
	for i := range c.Gates {
		if !c.Gates[i].Equal(o.Gates[i]) {
			return false
		}
	}
	return true
}

// Inverse returns the adjoint of a unitary gate.
func (g Gate) Inverse() (Gate, error) {
	out := g.Clone()
	switch g.Kind {
	case KindBarrier, KindSwap, KindToffoli:
		return out, nil
	case KindMeasure:
		return Gate{}, fmt.Errorf("%w: measure on qubit %d", ErrNotInvertible, g.Qubits[0])
	case KindSingle, KindControlled:
	default:
		return Gate{}, fmt.Errorf("%w: %s", ErrUnknownGate, g.Kind)
	}

	switch g.Name {
	case "s":
		out.Name = "sdg"
	case "sdg":
		out.Name = "s"
	case "t":
		out.Name = "tdg"
	case "tdg":
		out.Name = "t"
	case "sx":
		out.Name = "sxdg"
	case "sxdg":
		out.Name = "sx"
	case "u", "cu":
		out.Params[0] = -g.Params[0]
		out.Params[1] = -g.Params[2]
		out.Params[2] = -g.Params[1]
		if g.Name == "cu" {
			out.Params[3] = -g.Params[3]
		}
	default:
		for i := range out.Params {
			out.Params[i] = -out.Params[i]
		}
	}
	return out, nil
}
