package transpile

import "qcirc/internal/circuit"

// rule expands a multi-qubit gate into cx (or cz) plus named single-qubit gates. The expansion
// is translated again, so rules may use any gate that has a rule or a matrix.
type rule func(g circuit.Gate) []circuit.Gate

// rules is shared and never written after init.
var rules = map[string]rule{
	"cx": func(g circuit.Gate) []circuit.Gate {
		c, t := g.Control(), g.Target()
		return []circuit.Gate{circuit.H(t), circuit.CZ(c, t), circuit.H(t)}
	},
	"cz": func(g circuit.Gate) []circuit.Gate {
		c, t := g.Control(), g.Target()
		return []circuit.Gate{circuit.H(t), circuit.CX(c, t), circuit.H(t)}
	},
	"cy": func(g circuit.Gate) []circuit.Gate {
		c, t := g.Control(), g.Target()
		return []circuit.Gate{circuit.Sdg(t), circuit.CX(c, t), circuit.S(t)}
	},
	"ch": func(g circuit.Gate) []circuit.Gate {
		c, t := g.Control(), g.Target()
		return []circuit.Gate{
			circuit.S(t), circuit.H(t), circuit.T(t),
			circuit.CX(c, t),
			circuit.Tdg(t), circuit.H(t), circuit.Sdg(t),
		}
	},
	"cp": func(g circuit.Gate) []circuit.Gate {
		c, t, l := g.Control(), g.Target(), g.Param(0)
		return []circuit.Gate{
			circuit.P(l/2, c),
			circuit.CX(c, t),
			circuit.P(-l/2, t),
			circuit.CX(c, t),
			circuit.P(l/2, t),
		}
	},
	"crz": func(g circuit.Gate) []circuit.Gate {
		c, t, th := g.Control(), g.Target(), g.Param(0)
		return []circuit.Gate{
			circuit.RZ(th/2, t),
			circuit.CX(c, t),
			circuit.RZ(-th/2, t),
			circuit.CX(c, t),
		}
	},
	"cry": func(g circuit.Gate) []circuit.Gate {
		c, t, th := g.Control(), g.Target(), g.Param(0)
		return []circuit.Gate{
			circuit.RY(th/2, t),
			circuit.CX(c, t),
			circuit.RY(-th/2, t),
			circuit.CX(c, t),
		}
	},
	"crx": func(g circuit.Gate) []circuit.Gate {
		c, t, th := g.Control(), g.Target(), g.Param(0)
		return []circuit.Gate{
			circuit.H(t),
			circuit.RZ(th/2, t),
			circuit.CX(c, t),
			circuit.RZ(-th/2, t),
			circuit.CX(c, t),
			circuit.H(t),
		}
	},
	"cu": func(g circuit.Gate) []circuit.Gate {
		c, t := g.Control(), g.Target()
		theta, phi, lambda, gamma := g.Param(0), g.Param(1), g.Param(2), g.Param(3)
		return []circuit.Gate{
			circuit.P(gamma, c),
			circuit.P((lambda+phi)/2, c),
			circuit.P((lambda-phi)/2, t),
			circuit.CX(c, t),
			circuit.U(-theta/2, 0, -(phi+lambda)/2, t),
			circuit.CX(c, t),
			circuit.U(theta/2, phi, 0, t),
		}
	},
	"swap": func(g circuit.Gate) []circuit.Gate {
		a, b := g.Qubits[0], g.Qubits[1]
		return []circuit.Gate{circuit.CX(a, b), circuit.CX(b, a), circuit.CX(a, b)}
	},
	"ccx": func(g circuit.Gate) []circuit.Gate {
		a, b, c := g.Qubits[0], g.Qubits[1], g.Qubits[2]
		return []circuit.Gate{
			circuit.H(c),
			circuit.CX(b, c), circuit.Tdg(c),
			circuit.CX(a, c), circuit.T(c),
			circuit.CX(b, c), circuit.Tdg(c),
			circuit.CX(a, c), circuit.T(b), circuit.T(c), circuit.H(c),
			circuit.CX(a, b), circuit.T(a), circuit.Tdg(b),
			circuit.CX(a, b),
		}
	},
}

// SwapAsCX is the three-CX realisation of a swap used by the router.
func SwapAsCX(a, b int) []circuit.Gate {
	return rules["swap"](circuit.Swap(a, b))
}

// HasRule reports whether a gate name can be rewritten.
func HasRule(name string) bool {
	_, ok := rules[name]
	return ok
}
