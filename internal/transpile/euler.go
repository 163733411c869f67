package transpile

import (
	"math"
	"math/cmplx"

	"qcirc/internal/circuit"
)

const angleTolerance = 1e-10

// EulerAngles returns (θ, φ, λ) with m = e^{iα}·U(θ, φ, λ) for some global phase α.
// θ is in [0, π]; φ and λ are wrapped to (-π, π].
func EulerAngles(m circuit.Matrix2) (theta, phi, lambda float64) {
	theta = 2 * math.Atan2(cmplx.Abs(m[1][0]), cmplx.Abs(m[0][0]))
	switch {
	case cmplx.Abs(m[1][0]) < angleTolerance:
		// diagonal: only φ+λ is defined
		lambda = cmplx.Phase(m[1][1]) - cmplx.Phase(m[0][0])
	case cmplx.Abs(m[0][0]) < angleTolerance:
		// anti-diagonal: only φ-λ is defined
		alpha := cmplx.Phase(-m[0][1])
		phi = cmplx.Phase(m[1][0]) - alpha
	default:
		alpha := cmplx.Phase(m[0][0])
		phi = cmplx.Phase(m[1][0]) - alpha
		lambda = cmplx.Phase(-m[0][1]) - alpha
	}
	return theta, wrapAngle(phi), wrapAngle(lambda)
}

// wrapAngle maps a to (-π, π] and snaps values within tolerance of zero to zero.
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	if math.Abs(a) < angleTolerance {
		return 0
	}
	return a
}

func isZeroAngle(a float64) bool {
	return wrapAngle(a) == 0
}

// synthesize emits the single-qubit family gates implementing m on qubit q.
func (t *Target) synthesize(m circuit.Matrix2, q int) []circuit.Gate {
	theta, phi, lambda := EulerAngles(m)
	switch t.family {
	case FamilyU:
		return []circuit.Gate{circuit.U(snap(theta), phi, lambda, q)}
	default:
		// U(θ, φ, λ) = e^{i(φ+λ)/2}·RZ(φ)·RY(θ)·RZ(λ)
		var out []circuit.Gate
		if isZeroAngle(theta) {
			if l := wrapAngle(phi + lambda); l != 0 {
				out = append(out, circuit.RZ(l, q))
			}
			return out
		}
		if lambda != 0 {
			out = append(out, circuit.RZ(lambda, q))
		}
		out = append(out, circuit.RY(snap(theta), q))
		if phi != 0 {
			out = append(out, circuit.RZ(phi, q))
		}
		return out
	}
}

func snap(a float64) float64 {
	if math.Abs(a) < angleTolerance {
		return 0
	}
	return a
}

func isIdentity(m circuit.Matrix2) bool {
	return m.EqualUpToPhase(circuit.Identity2, 1e-9)
}
