package routing

import (
	"context"
	"math"
	"sort"
	"time"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/transpile"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// pass runs the front-layer swap search over one gate sequence.
type pass struct {
	router   *Router
	coupling *graph.Graph
	dist     [][]int
	deadline time.Time
}

type passResult struct {
	gates []circuit.Gate
	final Layout
	swaps int
}

// mapping tracks where each logical qubit currently sits.
type mapping struct {
	log2phys Layout
	phys2log []int
}

func newMapping(l Layout, numPhysical int) *mapping {
	return &mapping{log2phys: l.Clone(), phys2log: l.Inverse(numPhysical)}
}

func (m *mapping) swap(a, b int) {
	la, lb := m.phys2log[a], m.phys2log[b]
	m.phys2log[a], m.phys2log[b] = lb, la
	if la >= 0 {
		m.log2phys[la] = b
	}
	if lb >= 0 {
		m.log2phys[lb] = a
	}
}

// run routes gates from layout. With emit unset only the final layout and swap count are
// produced, which is all the refinement rounds need.
func (p *pass) run(ctx context.Context, gates []circuit.Gate, numQubits, numClbits int, layout Layout, emit bool) (*passResult, error) {
	opts := p.router.opts
	n := p.coupling.N
	d := buildDAG(gates, numQubits, numClbits)
	remaining := append([]int(nil), d.npred...)
	front := d.roots()
	m := newMapping(layout, n)

	res := &passResult{}
	decay := make([]float64, n)
	resetDecay := func() {
		for i := range decay {
			decay[i] = 1
		}
	}
	resetDecay()

	steps, sinceProgress := 0, 0
	valve := 10 * n

	applySwap := func(a, b int) {
		if emit {
			res.gates = append(res.gates, transpile.SwapAsCX(a, b)...)
		}
		m.swap(a, b)
		res.swaps++
		decay[a] += opts.DecayDelta
		decay[b] += opts.DecayDelta
		if res.swaps%opts.DecayReset == 0 {
			resetDecay()
		}
	}

	for len(front) > 0 {
		var blocked, ready []int
		for _, gi := range front {
			g := gates[gi]
			if !p.executable(g, m) {
				blocked = append(blocked, gi)
				continue
			}
			if emit {
				res.gates = append(res.gates, g.Remap(m.log2phys))
			}
			for _, s := range d.succ[gi] {
				remaining[s]--
				if remaining[s] == 0 {
					ready = append(ready, s)
				}
			}
		}
		if len(blocked) < len(front) {
			front = mergeSorted(blocked, ready)
			sinceProgress = 0
			resetDecay()
			continue
		}

		if err := p.checkBudget(ctx, steps); err != nil {
			return nil, err
		}
		steps++

		if sinceProgress >= valve {
			p.releaseValve(gates, front, m, applySwap)
			sinceProgress = 0
			continue
		}

		extended := p.extendedSet(gates, d, front, remaining, opts.ExtendedSetSize)
		a, b := p.bestSwap(gates, front, extended, m, decay)
		applySwap(a, b)
		sinceProgress++
	}

	res.final = m.log2phys.Clone()
	return res, nil
}

func (p *pass) executable(g circuit.Gate, m *mapping) bool {
	if g.IsDirective() || len(g.Qubits) < 2 {
		return true
	}
	return p.coupling.HasEdge(m.log2phys[g.Qubits[0]], m.log2phys[g.Qubits[1]])
}

func (p *pass) checkBudget(ctx context.Context, steps int) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(ErrRoutingBudgetExceeded, "context deadline")
		}
		return err
	}
	if steps >= p.router.opts.MaxSteps {
		return errors.Wrapf(ErrRoutingBudgetExceeded, "%d swap decisions", steps)
	}
	if !p.deadline.IsZero() && time.Now().After(p.deadline) {
		return errors.Wrapf(ErrRoutingBudgetExceeded, "timeout %s", p.router.opts.Timeout)
	}
	return nil
}

// extendedSet collects up to size two-qubit gates that follow the front layer, in breadth-first
// order.
func (p *pass) extendedSet(gates []circuit.Gate, d *dag, front, remaining []int, size int) []int {
	pending := make(map[int]int)
	queue := append([]int(nil), front...)
	var out []int
	for len(queue) > 0 && len(out) < size {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range d.succ[cur] {
			if _, ok := pending[s]; !ok {
				pending[s] = remaining[s]
			}
			pending[s]--
			if pending[s] != 0 {
				continue
			}
			if g := gates[s]; !g.IsDirective() && len(g.Qubits) == 2 {
				out = append(out, s)
				if len(out) == size {
					break
				}
			}
			queue = append(queue, s)
		}
	}
	return out
}

// bestSwap scores every swap touching a front-layer qubit and returns the cheapest. Candidates
// are visited in ascending physical pair order and only a strictly better score replaces the
// current best, so ties resolve to the lowest pair.
func (p *pass) bestSwap(gates []circuit.Gate, front, extended []int, m *mapping, decay []float64) (int, int) {
	seen := make(map[graph.Pair]bool)
	var cands []graph.Pair
	for _, gi := range front {
		for _, q := range gates[gi].Qubits {
			phys := m.log2phys[q]
			for _, nb := range p.coupling.Neighbors(phys) {
				pair := graph.NewPair(phys, nb)
				if !seen[pair] {
					seen[pair] = true
					cands = append(cands, pair)
				}
			}
		}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Less(cands[j]) })

	opts := p.router.opts
	best, bestScore := cands[0], math.Inf(1)
	for _, c := range cands {
		moved := func(phys int) int {
			switch phys {
			case c.A:
				return c.B
			case c.B:
				return c.A
			}
			return phys
		}
		score := p.layerCost(gates, front, m, moved)
		if len(extended) > 0 {
			score += opts.ExtendedSetWeight * p.layerCost(gates, extended, m, moved)
		}
		score *= math.Max(decay[c.A], decay[c.B])
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best.A, best.B
}

// layerCost is the mean coupling distance of the given gates after relabelling physical qubits
// with moved.
func (p *pass) layerCost(gates []circuit.Gate, layer []int, m *mapping, moved func(int) int) float64 {
	total := 0
	for _, gi := range layer {
		g := gates[gi]
		a := moved(m.log2phys[g.Qubits[0]])
		b := moved(m.log2phys[g.Qubits[1]])
		total += p.dist[a][b]
	}
	return float64(total) / float64(len(layer))
}

// releaseValve walks the closest blocked gate's first qubit along a shortest path until the gate
// is executable.
func (p *pass) releaseValve(gates []circuit.Gate, front []int, m *mapping, applySwap func(a, b int)) {
	target, best := -1, math.MaxInt
	for _, gi := range front {
		g := gates[gi]
		if d := p.dist[m.log2phys[g.Qubits[0]]][m.log2phys[g.Qubits[1]]]; d < best {
			target, best = gi, d
		}
	}
	g := gates[target]
	path := p.coupling.ShortestPath(m.log2phys[g.Qubits[0]], m.log2phys[g.Qubits[1]])
	p.router.logger.Warn("routing stalled, forcing progress",
		zap.String("gate", g.String()),
		zap.Ints("path", path),
	)
	for i := 0; i+2 < len(path); i++ {
		applySwap(path[i], path[i+1])
	}
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Ints(out)
	return out
}
