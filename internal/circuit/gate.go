package circuit

import (
	"fmt"
	"strings"
)

// Kind tags the closed set of gate shapes a circuit may contain.
type Kind int

const (
	KindSingle Kind = iota
	KindControlled
	KindSwap
	KindToffoli
	KindMeasure
	KindBarrier
)

var kindNames = map[Kind]string{
	KindSingle:     "single",
	KindControlled: "controlled",
	KindSwap:       "swap",
	KindToffoli:    "toffoli",
	KindMeasure:    "measure",
	KindBarrier:    "barrier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown gate kind %q", s)
}

// Gate is one instruction. Qubits holds operands in a kind-specific order:
//
//	single:     [target]
//	controlled: [control, target]
//	swap:       [a, b]
//	toffoli:    [control1, control2, target]
//	measure:    [qubit]  (Clbit holds the classical destination)
//	barrier:    the qubit set it spans
type Gate struct {
	Kind   Kind
	Name   string
	Params []float64
	Qubits []int
	Clbit  int
}

type gateSpec struct {
	kind   Kind
	params int
}

// Gate names known to the model, with their kind and parameter arity.
var gateSpecs = map[string]gateSpec{
	"id":   {KindSingle, 0},
	"x":    {KindSingle, 0},
	"y":    {KindSingle, 0},
	"z":    {KindSingle, 0},
	"h":    {KindSingle, 0},
	"s":    {KindSingle, 0},
	"sdg":  {KindSingle, 0},
	"t":    {KindSingle, 0},
	"tdg":  {KindSingle, 0},
	"sx":   {KindSingle, 0},
	"sxdg": {KindSingle, 0},
	"rx":   {KindSingle, 1},
	"ry":   {KindSingle, 1},
	"rz":   {KindSingle, 1},
	"p":    {KindSingle, 1},
	"u":    {KindSingle, 3},

	"cx":  {KindControlled, 0},
	"cy":  {KindControlled, 0},
	"cz":  {KindControlled, 0},
	"ch":  {KindControlled, 0},
	"cp":  {KindControlled, 1},
	"crx": {KindControlled, 1},
	"cry": {KindControlled, 1},
	"crz": {KindControlled, 1},
	"cu":  {KindControlled, 4},

	"swap":    {KindSwap, 0},
	"ccx":     {KindToffoli, 0},
	"measure": {KindMeasure, 0},
	"barrier": {KindBarrier, 0},
}

// Lookup reports the kind and parameter count registered for a gate name.
func Lookup(name string) (Kind, int, bool) {
	spec, ok := gateSpecs[strings.ToLower(name)]
	return spec.kind, spec.params, ok
}

// IsUnitary reports whether the gate acts as a unitary (not a directive or measurement).
func (g Gate) IsUnitary() bool {
	return g.Kind != KindMeasure && g.Kind != KindBarrier
}

// IsDirective reports whether the gate only constrains scheduling.
func (g Gate) IsDirective() bool {
	return g.Kind == KindBarrier
}

// Arity is the number of qubits the gate touches.
func (g Gate) Arity() int {
	return len(g.Qubits)
}

// Control returns the control qubit of a controlled gate.
func (g Gate) Control() int {
	return g.Qubits[0]
}

// Target returns the qubit the gate's unitary acts on.
func (g Gate) Target() int {
	return g.Qubits[len(g.Qubits)-1]
}

// Param returns the i-th parameter, or zero when absent.
func (g Gate) Param(i int) float64 {
	if i < len(g.Params) {
		return g.Params[i]
	}
	return 0
}

// Clone returns a deep copy of g.
func (g Gate) Clone() Gate {
	out := g
	if g.Params != nil {
		out.Params = append([]float64(nil), g.Params...)
	}
	out.Qubits = append([]int(nil), g.Qubits...)
	return out
}

// Remap returns a copy of g with each qubit q replaced by mapping[q].
func (g Gate) Remap(mapping []int) Gate {
	out := g.Clone()
	for i, q := range out.Qubits {
		out.Qubits[i] = mapping[q]
	}
	return out
}

// Equal compares two gates field by field, with exact parameter equality.
func (g Gate) Equal(o Gate) bool {
	if g.Kind != o.Kind || g.Name != o.Name || g.Clbit != o.Clbit {
		return false
	}
	if len(g.Params) != len(o.Params) || len(g.Qubits) != len(o.Qubits) {
		return false
	}
	for i := range g.Params {
		if g.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range g.Qubits {
		if g.Qubits[i] != o.Qubits[i] {
			return false
		}
	}
	return true
}

func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Name)
	if len(g.Params) > 0 {
		sb.WriteString("(")
		for i, p := range g.Params {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "%g", p)
		}
		sb.WriteString(")")
	}
	for i, q := range g.Qubits {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	if g.Kind == KindMeasure {
		fmt.Fprintf(&sb, " -> c[%d]", g.Clbit)
	}
	return sb.String()
}

// NewGate builds a gate by name, checking the name, operand arity and parameter count.
// Operand indices are checked against a circuit only when the gate is appended.
func NewGate(name string, params []float64, qubits ...int) (Gate, error) {
	name = strings.ToLower(name)
	spec, ok := gateSpecs[name]
	if !ok {
		return Gate{}, fmt.Errorf("%w: %s", ErrUnknownGate, name)
	}
	if len(params) != spec.params {
		return Gate{}, fmt.Errorf("%w: %s expects %d parameters, got %d", ErrArity, name, spec.params, len(params))
	}
	g := Gate{Kind: spec.kind, Name: name, Params: params, Qubits: qubits}
	if err := g.checkShape(); err != nil {
		return Gate{}, err
	}
	return g, nil
}

func (g Gate) checkShape() error {
	want := -1
	switch g.Kind {
	case KindSingle, KindMeasure:
		want = 1
	case KindControlled, KindSwap:
		want = 2
	case KindToffoli:
		want = 3
	case KindBarrier:
		if len(g.Qubits) == 0 {
			return fmt.Errorf("%w: barrier spans no qubits", ErrIndex)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGate, g.Kind)
	}
	if want >= 0 && len(g.Qubits) != want {
		return fmt.Errorf("%w: %s takes %d qubits, got %d", ErrIndex, g.Name, want, len(g.Qubits))
	}
	seen := make(map[int]bool, len(g.Qubits))
	for _, q := range g.Qubits {
		if seen[q] {
			return fmt.Errorf("%w: %s repeats qubit %d", ErrIndex, g.Name, q)
		}
		seen[q] = true
	}
	return nil
}

func single(name string, q int, params ...float64) Gate {
	if len(params) == 0 {
		params = nil
	}
	return Gate{Kind: KindSingle, Name: name, Params: params, Qubits: []int{q}}
}

func controlled(name string, c, t int, params ...float64) Gate {
	if len(params) == 0 {
		params = nil
	}
	return Gate{Kind: KindControlled, Name: name, Params: params, Qubits: []int{c, t}}
}

func ID(q int) Gate { return single("id", q) }
func X(q int) Gate { return single("x", q) }
func Y(q int) Gate { return single("y", q) }
func Z(q int) Gate { return single("z", q) }
func H(q int) Gate { return single("h", q) }
func S(q int) Gate { return single("s", q) }
func Sdg(q int) Gate { return single("sdg", q) }
func T(q int) Gate { return single("t", q) }
func Tdg(q int) Gate { return single("tdg", q) }
func SX(q int) Gate { return single("sx", q) }
func RX(theta float64, q int) Gate { return single("rx", q, theta) }
func RY(theta float64, q int) Gate { return single("ry", q, theta) }
func RZ(theta float64, q int) Gate { return single("rz", q, theta) }
func P(lambda float64, q int) Gate { return single("p", q, lambda) }
func U(theta, phi, lambda float64, q int) Gate {
	return single("u", q, theta, phi, lambda)
}

func CX(c, t int) Gate { return controlled("cx", c, t) }
func CY(c, t int) Gate { return controlled("cy", c, t) }
func CZ(c, t int) Gate { return controlled("cz", c, t) }
func CP(lambda float64, c, t int) Gate { return controlled("cp", c, t, lambda) }
func CRZ(theta float64, c, t int) Gate { return controlled("crz", c, t, theta) }
func CU(theta, phi, lambda, gamma float64, c, t int) Gate {
	return controlled("cu", c, t, theta, phi, lambda, gamma)
}

func Swap(a, b int) Gate {
	return Gate{Kind: KindSwap, Name: "swap", Qubits: []int{a, b}}
}

func CCX(c1, c2, t int) Gate {
	return Gate{Kind: KindToffoli, Name: "ccx", Qubits: []int{c1, c2, t}}
}

func Measure(q, c int) Gate {
	return Gate{Kind: KindMeasure, Name: "measure", Qubits: []int{q}, Clbit: c}
}

func Barrier(qubits ...int) Gate {
	return Gate{Kind: KindBarrier, Name: "barrier", Qubits: append([]int(nil), qubits...)}
}
