package qaoa

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"qcirc/internal/graph"
	"qcirc/internal/sim"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultShots = 1000

// Evaluator runs ansatz circuits on an injected simulator and scores the histograms.
type Evaluator struct {
	runner sim.Runner
	shots  int
	logger *zap.Logger
}

func NewEvaluator(runner sim.Runner, shots int, logger *zap.Logger) *Evaluator {
	if shots <= 0 {
		shots = DefaultShots
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{runner: runner, shots: shots, logger: logger}
}

// Evaluate builds the ansatz for (gamma, beta), runs it and returns the expectation together with
// the raw histogram.
func (e *Evaluator) Evaluate(ctx context.Context, numQubits int, edges []graph.Edge, gamma, beta float64) (float64, sim.Counts, error) {
	c, err := CreateAnsatz(numQubits, edges, gamma, beta)
	if err != nil {
		return 0, nil, err
	}
	counts, err := e.runner.Run(ctx, c, e.shots)
	if err != nil {
		return 0, nil, fmt.Errorf("run ansatz γ=%g β=%g: %w", gamma, beta, err)
	}
	value, err := Expectation(counts, edges)
	if err != nil {
		return 0, nil, err
	}
	e.logger.Debug("evaluated ansatz",
		zap.Float64("gamma", gamma),
		zap.Float64("beta", beta),
		zap.Float64("expectation", value),
		zap.Int("outcomes", len(counts)),
	)
	return value, counts, nil
}

// Landscape is the expectation value over a (gamma, beta) grid. Values[i][j] belongs to
// Gammas[i] and Betas[j].
type Landscape struct {
	Gammas []float64
	Betas  []float64
	Values [][]float64
}

// Best returns the grid point with the highest expectation, the first one on ties.
func (l *Landscape) Best() (gamma, beta, value float64) {
	value = math.Inf(-1)
	for i, row := range l.Values {
		for j, v := range row {
			if v > value {
				gamma, beta, value = l.Gammas[i], l.Betas[j], v
			}
		}
	}
	return gamma, beta, value
}

// Landscape evaluates every grid point concurrently. Each point builds its own circuit, so the
// runner must be safe for concurrent use.
func (e *Evaluator) Landscape(ctx context.Context, numQubits int, edges []graph.Edge, gammas, betas []float64) (*Landscape, error) {
	out := &Landscape{
		Gammas: append([]float64(nil), gammas...),
		Betas:  append([]float64(nil), betas...),
		Values: make([][]float64, len(gammas)),
	}
	for i := range out.Values {
		out.Values[i] = make([]float64, len(betas))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, gamma := range gammas {
		for j, beta := range betas {
			eg.Go(func() error {
				v, _, err := e.Evaluate(ctx, numQubits, edges, gamma, beta)
				if err != nil {
					return err
				}
				out.Values[i][j] = v
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("landscape: %w", err)
	}
	return out, nil
}

// Grid returns n evenly spaced points in [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
