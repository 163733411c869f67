package qaoa

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"qcirc/internal/graph"
	"qcirc/internal/sim"
)

// RandomGraph draws an Erdős–Rényi graph on n vertices: every pair i<j is linked with probability p
// and given a weight uniform in [0.5, 1.5). The same seed always yields the same graph.
func RandomGraph(n int, p float64, seed uint64) []graph.Edge {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				edges = append(edges, graph.Edge{A: i, B: j, Weight: 0.5 + rng.Float64()})
			}
		}
	}
	return edges
}

// Solution is a classical MaxCut optimum.
type Solution struct {
	Value     float64
	Bitstring string
}

// ClassicalMaxCut enumerates all 2^n assignments. Assignment k is rendered most significant bit
// first, and the first assignment reaching the maximum is kept.
func ClassicalMaxCut(edges []graph.Edge, n int) (Solution, error) {
	if n <= 0 || n > 30 {
		return Solution{}, fmt.Errorf("classical maxcut supports 1..30 vertices, got %d", n)
	}
	best := Solution{Value: math.Inf(-1)}
	for k := 0; k < 1<<n; k++ {
		bits := fmt.Sprintf("%0*b", n, k)
		v, err := CutValue(bits, edges)
		if err != nil {
			return Solution{}, err
		}
		if v > best.Value {
			best = Solution{Value: v, Bitstring: bits}
		}
	}
	return best, nil
}

// Accuracy compares measured cuts against the classical optimum.
type Accuracy struct {
	BestCut float64
	// ApproximationRatio is the best measured cut over the optimum.
	ApproximationRatio float64
	// AverageCutRatio averages the cut of each distinct measured state, unweighted by counts.
	AverageCutRatio float64
	// ExpectationRatio is the shot-weighted expectation over the optimum.
	ExpectationRatio float64
	// SuccessProbability is the fraction of shots that hit the best measured cut.
	SuccessProbability float64
}

const cutTolerance = 1e-9

func AnalyzeAccuracy(counts sim.Counts, optimum Solution, edges []graph.Edge) (Accuracy, error) {
	total := counts.Total()
	if total <= 0 || len(counts) == 0 {
		return Accuracy{}, ErrEmptyInput
	}
	if optimum.Value <= 0 {
		return Accuracy{}, ErrZeroOptimum
	}

	states := counts.Bitstrings()
	cuts := make([]float64, len(states))
	best, sum, weighted := math.Inf(-1), 0.0, 0.0
	for i, s := range states {
		v, err := CutValue(s, edges)
		if err != nil {
			return Accuracy{}, err
		}
		cuts[i] = v
		best = math.Max(best, v)
		sum += v
		weighted += v * float64(counts[s])
	}

	hits := 0
	for i, s := range states {
		if math.Abs(cuts[i]-best) <= cutTolerance {
			hits += counts[s]
		}
	}
	return Accuracy{
		BestCut:            best,
		ApproximationRatio: best / optimum.Value,
		AverageCutRatio:    sum / float64(len(states)) / optimum.Value,
		ExpectationRatio:   weighted / float64(total) / optimum.Value,
		SuccessProbability: float64(hits) / float64(total),
	}, nil
}

// FormatEdges renders edges as "a-b:w" fields for logs and CLI output.
func FormatEdges(edges []graph.Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprintf("%d-%d:%.3g", e.A, e.B, e.Weight)
	}
	return strings.Join(parts, ",")
}
