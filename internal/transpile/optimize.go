package transpile

import "qcirc/internal/circuit"

const diagonalTolerance = 1e-10

func (d *Decomposer) optimize(numQubits int, gates []circuit.Gate) ([]circuit.Gate, bool) {
	var changed, ch bool
	gates, ch = d.mergeSingleQubitRuns(numQubits, gates)
	changed = changed || ch
	gates, ch = cancelInversePairs(gates, d.level >= 2)
	changed = changed || ch
	if d.level >= 3 {
		gates, ch = dropDiagonalBeforeMeasure(gates)
		changed = changed || ch
	}
	return gates, changed
}

// mergeSingleQubitRuns collapses every maximal run of single-qubit gates on one wire. A run that
// multiplies to the identity is removed; otherwise it is replaced only when resynthesis is
// strictly shorter.
func (d *Decomposer) mergeSingleQubitRuns(numQubits int, gates []circuit.Gate) ([]circuit.Gate, bool) {
	drop := make([]bool, len(gates))
	replace := make(map[int][]circuit.Gate)
	runs := make([][]int, numQubits)
	changed := false

	flush := func(q int) {
		run := runs[q]
		runs[q] = nil
		if len(run) == 0 {
			return
		}
		m := circuit.Identity2
		for _, idx := range run {
			gm, err := gates[idx].Matrix()
			if err != nil {
				return
			}
			m = gm.Mul(m)
		}
		if isIdentity(m) {
			for _, idx := range run {
				drop[idx] = true
			}
			changed = true
			return
		}
		synth := d.target.synthesize(m, q)
		if len(synth) >= len(run) {
			return
		}
		for _, idx := range run {
			drop[idx] = true
		}
		replace[run[len(run)-1]] = synth
		changed = true
	}

	for i, g := range gates {
		if g.Kind == circuit.KindSingle {
			runs[g.Target()] = append(runs[g.Target()], i)
			continue
		}
		for _, q := range g.Qubits {
			flush(q)
		}
	}
	for q := range runs {
		flush(q)
	}
	if !changed {
		return gates, false
	}

	out := make([]circuit.Gate, 0, len(gates))
	for i, g := range gates {
		if r, ok := replace[i]; ok {
			out = append(out, r...)
			continue
		}
		if !drop[i] {
			out = append(out, g)
		}
	}
	return out, true
}

// cancelInversePairs removes pairs of identical self-inverse gates with nothing in between on
// their wires. With commute set, gates known to commute with the first gate may sit in between.
func cancelInversePairs(gates []circuit.Gate, commute bool) ([]circuit.Gate, bool) {
	removed := make([]bool, len(gates))
	changed := false
	for i, g := range gates {
		if removed[i] || !selfInverse[g.Name] {
			continue
		}
		for j := i + 1; j < len(gates); j++ {
			if removed[j] || !overlaps(g, gates[j]) {
				continue
			}
			if sameSelfInverse(g, gates[j]) {
				removed[i], removed[j] = true, true
				changed = true
				break
			}
			if commute && commutes(g, gates[j]) {
				continue
			}
			break
		}
	}
	if !changed {
		return gates, false
	}
	return compact(gates, removed), true
}

// dropDiagonalBeforeMeasure removes diagonal single-qubit gates whose next operation on the same
// wire is a measurement.
func dropDiagonalBeforeMeasure(gates []circuit.Gate) ([]circuit.Gate, bool) {
	removed := make([]bool, len(gates))
	changed := false
	for i, g := range gates {
		if g.Kind != circuit.KindSingle || !g.IsDiagonal(diagonalTolerance) {
			continue
		}
		q := g.Target()
		for j := i + 1; j < len(gates); j++ {
			if !touches(gates[j], q) {
				continue
			}
			if gates[j].Kind == circuit.KindMeasure {
				removed[i] = true
				changed = true
			}
			break
		}
	}
	if !changed {
		return gates, false
	}
	return compact(gates, removed), true
}

var selfInverse = map[string]bool{
	"cx": true, "cy": true, "cz": true, "ch": true, "swap": true, "ccx": true,
}

// symmetric gates act the same under any permutation of their operands; ccx is symmetric in
// its two controls.
var symmetric = map[string]bool{"cz": true, "swap": true}

func sameSelfInverse(a, b circuit.Gate) bool {
	if a.Name != b.Name || len(a.Qubits) != len(b.Qubits) {
		return false
	}
	switch {
	case symmetric[a.Name]:
		return sameSet(a.Qubits, b.Qubits)
	case a.Kind == circuit.KindToffoli:
		return a.Target() == b.Target() && sameSet(a.Qubits[:2], b.Qubits[:2])
	default:
		for i := range a.Qubits {
			if a.Qubits[i] != b.Qubits[i] {
				return false
			}
		}
		return true
	}
}

// commutes reports whether b can be moved past a. Only cx and cz are considered.
func commutes(a, b circuit.Gate) bool {
	switch a.Name {
	case "cx":
		c, t := a.Control(), a.Target()
		switch {
		case b.Kind == circuit.KindSingle:
			return b.Target() == c && b.IsDiagonal(diagonalTolerance)
		case b.Name == "cx":
			return (b.Control() == c && b.Target() != t) || (b.Target() == t && b.Control() != c)
		case b.Name == "cz":
			return !touches(b, t)
		}
	case "cz":
		switch {
		case b.Kind == circuit.KindSingle:
			return b.IsDiagonal(diagonalTolerance)
		case b.Name == "cz":
			return true
		case b.Name == "cx":
			return !touches(a, b.Target())
		}
	}
	return false
}

func overlaps(a, b circuit.Gate) bool {
	for _, q := range a.Qubits {
		if touches(b, q) {
			return true
		}
	}
	return false
}

func touches(g circuit.Gate, q int) bool {
	for _, x := range g.Qubits {
		if x == q {
			return true
		}
	}
	return false
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func compact(gates []circuit.Gate, removed []bool) []circuit.Gate {
	out := make([]circuit.Gate, 0, len(gates))
	for i, g := range gates {
		if !removed[i] {
			out = append(out, g)
		}
	}
	return out
}
