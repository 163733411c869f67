package routing

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"qcirc/internal/graph"
)

// Layout maps logical qubit i to physical qubit Layout[i].
type Layout []int

// LayoutMethod selects how the initial layout is chosen.
type LayoutMethod string

const (
	LayoutTrivial LayoutMethod = "trivial"
	LayoutDense   LayoutMethod = "dense"
	LayoutRandom  LayoutMethod = "random"
)

func ParseLayoutMethod(s string) (LayoutMethod, error) {
	switch m := LayoutMethod(s); m {
	case LayoutTrivial, LayoutDense, LayoutRandom:
		return m, nil
	case "":
		return LayoutDense, nil
	}
	return "", fmt.Errorf("unknown layout method %q (want trivial, dense or random)", s)
}

func (l Layout) Clone() Layout {
	return append(Layout(nil), l...)
}

// Inverse returns the physical → logical table over numPhysical qubits, -1 for unused slots.
func (l Layout) Inverse(numPhysical int) []int {
	inv := make([]int, numPhysical)
	for i := range inv {
		inv[i] = -1
	}
	for logical, p := range l {
		inv[p] = logical
	}
	return inv
}

// Validate checks that l is injective into 0..numPhysical-1.
func (l Layout) Validate(numPhysical int) error {
	seen := make(map[int]bool, len(l))
	for logical, p := range l {
		if p < 0 || p >= numPhysical {
			return fmt.Errorf("logical %d mapped to physical %d outside 0..%d", logical, p, numPhysical-1)
		}
		if seen[p] {
			return fmt.Errorf("physical %d assigned twice", p)
		}
		seen[p] = true
	}
	return nil
}

// initialLayout places numLogical qubits inside the largest connected component of coupling.
func initialLayout(method LayoutMethod, numLogical int, coupling *graph.Graph, interaction *graph.Graph, dist [][]int, seed uint64) Layout {
	comp := coupling.LargestComponent()
	switch method {
	case LayoutRandom:
		return randomLayout(numLogical, comp, seed)
	case LayoutDense:
		return denseLayout(numLogical, comp, coupling, interaction, dist)
	default:
		return trivialLayout(numLogical, comp)
	}
}

// trivialLayout is the identity when qubits 0..n-1 share the component, otherwise the n
// lowest-numbered qubits of the component.
func trivialLayout(n int, comp []int) Layout {
	in := make(map[int]bool, len(comp))
	for _, p := range comp {
		in[p] = true
	}
	identity := true
	for i := 0; i < n; i++ {
		if !in[i] {
			identity = false
			break
		}
	}
	l := make(Layout, n)
	for i := range l {
		if identity {
			l[i] = i
		} else {
			l[i] = comp[i]
		}
	}
	return l
}

func randomLayout(n int, comp []int, seed uint64) Layout {
	rng := rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
	perm := append([]int(nil), comp...)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return Layout(perm[:n])
}

// denseLayout places the most-interacting logical qubit on the best-connected physical qubit and
// then greedily puts every other logical qubit where its weighted distance to already placed
// partners is smallest. Ties go to the lowest physical index.
func denseLayout(n int, comp []int, coupling, interaction *graph.Graph, dist [][]int) Layout {
	order := make([]int, n)
	weight := make([]float64, n)
	for i := range order {
		order[i] = i
	}
	for _, e := range interaction.Edges {
		weight[e.A] += e.Weight
		weight[e.B] += e.Weight
	}
	sort.SliceStable(order, func(i, j int) bool { return weight[order[i]] > weight[order[j]] })

	l := make(Layout, n)
	free := make(map[int]bool, len(comp))
	for _, p := range comp {
		free[p] = true
	}
	var placed []int

	for k, logical := range order {
		best, bestCost := -1, 0.0
		for _, p := range comp {
			if !free[p] {
				continue
			}
			var cost float64
			if k == 0 {
				cost = -float64(coupling.Degree(p))
			} else {
				for _, other := range placed {
					w := interaction.Weight(logical, other)
					cost += w * float64(dist[p][l[other]])
				}
				// unconnected qubits stay close to the placed region
				if cost == 0 {
					cost = float64(nearest(p, placed, l, dist)) * 1e-3
				}
			}
			if best < 0 || cost < bestCost {
				best, bestCost = p, cost
			}
		}
		l[logical] = best
		free[best] = false
		placed = append(placed, logical)
	}
	return l
}

func nearest(p int, placed []int, l Layout, dist [][]int) int {
	d := -1
	for _, other := range placed {
		if x := dist[p][l[other]]; x >= 0 && (d < 0 || x < d) {
			d = x
		}
	}
	return max(d, 0)
}
