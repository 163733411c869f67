// Package pipeline transpiles and routes many circuits concurrently and drives benchmark runs.
package pipeline

import (
	"context"
	"runtime"

	"qcirc/internal/analysis"
	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/routing"
	"qcirc/internal/transpile"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a batch. A nil Coupling only decomposes; otherwise circuits are laid out and
// routed with Routing, whose Basis and Level are taken from the batch.
type Options struct {
	Basis    []string
	Level    int
	Coupling *graph.Graph
	Routing  routing.Options
	// Workers bounds concurrent circuits; zero means GOMAXPROCS.
	Workers int
	// TimingRuns repeats each transformation to collect timing statistics; zero means once.
	TimingRuns int
}

// Result is the outcome for one input circuit.
type Result struct {
	Name       string
	Output     *circuit.Circuit
	Before     analysis.Metrics
	After      analysis.Metrics
	Comparison analysis.Comparison
	Swaps      int
	Timing     analysis.Timing
}

// Batch transforms circuits on independent workers. It holds no per-call state.
type Batch struct {
	opts       Options
	decomposer *transpile.Decomposer
	router     *routing.Router
	logger     *zap.Logger
}

func NewBatch(opts Options, logger *zap.Logger) (*Batch, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Basis) == 0 {
		opts.Basis = transpile.DefaultBasis
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.TimingRuns <= 0 {
		opts.TimingRuns = 1
	}

	b := &Batch{opts: opts, logger: logger}
	d, err := transpile.New(opts.Basis, opts.Level, logger)
	if err != nil {
		return nil, err
	}
	b.decomposer = d

	if opts.Coupling != nil {
		ro := opts.Routing
		ro.Basis = opts.Basis
		ro.Level = opts.Level
		r, err := routing.NewRouter(ro, logger)
		if err != nil {
			return nil, err
		}
		b.router = r
	}
	return b, nil
}

// Run processes every circuit and returns results in input order. The first failure cancels the
// remaining work and is returned wrapped with the circuit name.
func (b *Batch) Run(ctx context.Context, circuits []*circuit.Circuit) ([]Result, error) {
	results := make([]Result, len(circuits))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.opts.Workers)
	for i, c := range circuits {
		eg.Go(func() error {
			res, err := b.one(ctx, c)
			if err != nil {
				return errors.Wrapf(err, "circuit %s", c.Name)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Batch) one(ctx context.Context, c *circuit.Circuit) (Result, error) {
	res := Result{Name: c.Name, Before: analysis.Measure(c)}

	var err error
	res.Timing, err = analysis.Benchmark(ctx, b.opts.TimingRuns, func(ctx context.Context) error {
		if b.router == nil {
			out, err := b.decomposer.Run(c)
			if err != nil {
				return err
			}
			res.Output = out
			return nil
		}
		routed, err := b.router.OptimizeLayout(ctx, c, b.opts.Coupling)
		if err != nil {
			return err
		}
		res.Output = routed.Circuit
		res.Swaps = routed.Swaps
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.After = analysis.Measure(res.Output)
	res.Comparison = analysis.CompareMetrics(res.Before, res.After)
	b.logger.Debug("circuit processed",
		zap.String("circuit", c.Name),
		zap.Int("size_before", res.Before.Size),
		zap.Int("size_after", res.After.Size),
		zap.Int("swaps", res.Swaps),
		zap.Duration("mean", res.Timing.Mean),
	)
	return res, nil
}
