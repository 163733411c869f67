package routing

import (
	"sort"

	"qcirc/internal/circuit"
)

// dag orders gates by shared qubits and classical bits.
type dag struct {
	succ  [][]int
	npred []int
}

func buildDAG(gates []circuit.Gate, numQubits, numClbits int) *dag {
	d := &dag{succ: make([][]int, len(gates)), npred: make([]int, len(gates))}
	lastQ := make([]int, numQubits)
	lastC := make([]int, numClbits)
	for i := range lastQ {
		lastQ[i] = -1
	}
	for i := range lastC {
		lastC[i] = -1
	}

	for i, g := range gates {
		preds := make(map[int]bool)
		for _, q := range g.Qubits {
			if p := lastQ[q]; p >= 0 {
				preds[p] = true
			}
			lastQ[q] = i
		}
		if g.Kind == circuit.KindMeasure {
			if p := lastC[g.Clbit]; p >= 0 {
				preds[p] = true
			}
			lastC[g.Clbit] = i
		}
		for p := range preds {
			d.succ[p] = append(d.succ[p], i)
			d.npred[i]++
		}
	}
	for i := range d.succ {
		sort.Ints(d.succ[i])
	}
	return d
}

func (d *dag) roots() []int {
	var out []int
	for i, n := range d.npred {
		if n == 0 {
			out = append(out, i)
		}
	}
	return out
}
