package circuit

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix2 is a 2x2 complex matrix, row-major.
type Matrix2 [2][2]complex128

// Identity2 is the single-qubit identity.
var Identity2 = Matrix2{{1, 0}, {0, 1}}

// Mul returns m·o.
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	var out Matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return out
}

// Scale multiplies every entry by s.
func (m Matrix2) Scale(s complex128) Matrix2 {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			m[i][j] *= s
		}
	}
	return m
}

// EqualUpToPhase reports whether m = e^{iα}·o for some α, within tol.
func (m Matrix2) EqualUpToPhase(o Matrix2, tol float64) bool {
	var phase complex128
	for i := 0; i < 2 && phase == 0; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(o[i][j]) > tol {
				phase = m[i][j] / o[i][j]
				break
			}
		}
	}
	if phase == 0 || math.Abs(cmplx.Abs(phase)-1) > tol {
		return false
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(m[i][j]-phase*o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// UMatrix is the generic single-qubit rotation U(θ, φ, λ).
func UMatrix(theta, phi, lambda float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix2{
		{c, -cmplx.Exp(complex(0, lambda)) * s},
		{cmplx.Exp(complex(0, phi)) * s, cmplx.Exp(complex(0, phi+lambda)) * c},
	}
}

func rotation(axis byte, theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := math.Sin(theta / 2)
	switch axis {
	case 'x':
		return Matrix2{{c, complex(0, -s)}, {complex(0, -s), c}}
	case 'y':
		return Matrix2{{c, complex(-s, 0)}, {complex(s, 0), c}}
	default:
		return Matrix2{{cmplx.Exp(complex(0, -theta/2)), 0}, {0, cmplx.Exp(complex(0, theta/2))}}
	}
}

func phase(lambda float64) Matrix2 {
	return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, lambda))}}
}

// NamedMatrix returns the 2x2 unitary of a single-qubit gate name, or the target unitary of a
// controlled gate name (cx → X, cp → P, ...).
func NamedMatrix(name string, params []float64) (Matrix2, error) {
	p := func(i int) float64 {
		if i < len(params) {
			return params[i]
		}
		return 0
	}
	r := 1 / math.Sqrt2
	switch name {
	case "id":
		return Identity2, nil
	case "x", "cx":
		return Matrix2{{0, 1}, {1, 0}}, nil
	case "y", "cy":
		return Matrix2{{0, complex(0, -1)}, {complex(0, 1), 0}}, nil
	case "z", "cz":
		return Matrix2{{1, 0}, {0, -1}}, nil
	case "h", "ch":
		return Matrix2{{complex(r, 0), complex(r, 0)}, {complex(r, 0), complex(-r, 0)}}, nil
	case "s":
		return phase(math.Pi / 2), nil
	case "sdg":
		return phase(-math.Pi / 2), nil
	case "t":
		return phase(math.Pi / 4), nil
	case "tdg":
		return phase(-math.Pi / 4), nil
	case "sx":
		return Matrix2{{complex(0.5, 0.5), complex(0.5, -0.5)}, {complex(0.5, -0.5), complex(0.5, 0.5)}}, nil
	case "sxdg":
		return Matrix2{{complex(0.5, -0.5), complex(0.5, 0.5)}, {complex(0.5, 0.5), complex(0.5, -0.5)}}, nil
	case "rx", "crx":
		return rotation('x', p(0)), nil
	case "ry", "cry":
		return rotation('y', p(0)), nil
	case "rz", "crz":
		return rotation('z', p(0)), nil
	case "p", "cp":
		return phase(p(0)), nil
	case "u":
		return UMatrix(p(0), p(1), p(2)), nil
	case "cu":
		return UMatrix(p(0), p(1), p(2)).Scale(cmplx.Exp(complex(0, p(3)))), nil
	}
	return Matrix2{}, fmt.Errorf("%w: no 2x2 matrix for %s", ErrUnknownGate, name)
}

// Matrix returns the unitary a single-qubit gate applies, or the unitary a controlled gate
// applies to its target when the control is set.
func (g Gate) Matrix() (Matrix2, error) {
	switch g.Kind {
	case KindSingle, KindControlled:
		return NamedMatrix(g.Name, g.Params)
	case KindSwap, KindToffoli, KindMeasure, KindBarrier:
		return Matrix2{}, fmt.Errorf("%s gate %s has no 2x2 matrix", g.Kind, g.Name)
	default:
		return Matrix2{}, fmt.Errorf("%w: %s", ErrUnknownGate, g.Kind)
	}
}

// IsDiagonal reports whether the single-qubit gate is diagonal in the computational basis.
func (g Gate) IsDiagonal(tol float64) bool {
	if g.Kind != KindSingle {
		return false
	}
	m, err := g.Matrix()
	if err != nil {
		return false
	}
	return cmplx.Abs(m[0][1]) < tol && cmplx.Abs(m[1][0]) < tol
}
