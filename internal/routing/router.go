// Package routing places logical qubits on a hardware coupling graph and inserts swaps so every
// two-qubit gate acts on coupled physical qubits.
package routing

import (
	"context"
	"time"

	"qcirc/internal/circuit"
	"qcirc/internal/graph"
	"qcirc/internal/transpile"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrDisconnectedGraph     = errors.New("coupling graph has too few connected qubits")
	ErrRoutingBudgetExceeded = errors.New("routing budget exceeded")
)

// Options tunes layout and routing. Zero-valued tuning fields select their defaults; Level is
// used as given.
type Options struct {
	Basis []string
	Level int

	Layout LayoutMethod
	Seed   uint64
	// Iterations is the number of forward/reverse refinement rounds applied to the initial layout.
	Iterations int

	ExtendedSetSize   int
	ExtendedSetWeight float64
	DecayDelta        float64
	DecayReset        int

	// MaxSteps bounds the number of swap decisions per routing pass.
	MaxSteps int
	Timeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Basis:             transpile.DefaultBasis,
		Level:             1,
		Layout:            LayoutDense,
		Iterations:        2,
		ExtendedSetSize:   20,
		ExtendedSetWeight: 0.5,
		DecayDelta:        0.001,
		DecayReset:        5,
		MaxSteps:          100000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Basis) == 0 {
		o.Basis = d.Basis
	}
	if o.Layout == "" {
		o.Layout = d.Layout
	}
	if o.Iterations < 0 {
		o.Iterations = 0
	}
	if o.ExtendedSetSize <= 0 {
		o.ExtendedSetSize = d.ExtendedSetSize
	}
	if o.ExtendedSetWeight <= 0 {
		o.ExtendedSetWeight = d.ExtendedSetWeight
	}
	if o.DecayDelta <= 0 {
		o.DecayDelta = d.DecayDelta
	}
	if o.DecayReset <= 0 {
		o.DecayReset = d.DecayReset
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	return o
}

// Result is a routed circuit on physical qubits and its metrics.
type Result struct {
	Circuit       *circuit.Circuit
	Depth         int
	Size          int
	GateCounts    map[string]int
	InitialLayout Layout
	FinalLayout   Layout
	Swaps         int
}

// Router is stateless between calls and safe for concurrent use.
type Router struct {
	opts       Options
	decomposer *transpile.Decomposer
	logger     *zap.Logger
}

func NewRouter(opts Options, logger *zap.Logger) (*Router, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := ParseLayoutMethod(string(opts.Layout)); err != nil {
		return nil, err
	}
	d, err := transpile.New(opts.Basis, opts.Level, logger)
	if err != nil {
		return nil, errors.Wrap(err, "router decomposer")
	}
	return &Router{opts: opts, decomposer: d, logger: logger}, nil
}

func (r *Router) Options() Options { return r.opts }

// Route maps c onto coupling. Gates keep their names; swaps are inserted as three cx gates. The
// result has one qubit per coupling vertex.
func (r *Router) Route(ctx context.Context, c *circuit.Circuit, coupling *graph.Graph) (*Result, error) {
	if err := checkRoutable(c, coupling); err != nil {
		return nil, err
	}

	var deadline time.Time
	if r.opts.Timeout > 0 {
		deadline = time.Now().Add(r.opts.Timeout)
	}
	dist := coupling.Distances()
	interaction := graph.Interaction(c)
	initial := initialLayout(r.opts.Layout, c.NumQubits, coupling, interaction, dist, r.opts.Seed)

	p := &pass{router: r, coupling: coupling, dist: dist, deadline: deadline}

	candidates := []Layout{initial}
	skeleton := twoQubitGates(c.Gates)
	layout := initial
	for i := 0; i < r.opts.Iterations && len(skeleton) > 0; i++ {
		fwd, err := p.run(ctx, skeleton, c.NumQubits, 0, layout, false)
		if err != nil {
			return nil, err
		}
		rev, err := p.run(ctx, reversed(skeleton), c.NumQubits, 0, fwd.final, false)
		if err != nil {
			return nil, err
		}
		layout = rev.final
		candidates = append(candidates, layout)
	}

	var best *passResult
	var bestInitial Layout
	for i, cand := range candidates {
		res, err := p.run(ctx, c.Gates, c.NumQubits, c.NumClbits, cand, true)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("routing candidate", zap.Int("candidate", i), zap.Ints("layout", cand), zap.Int("swaps", res.swaps))
		if best == nil || res.swaps < best.swaps {
			best, bestInitial = res, cand
		}
	}

	out := circuit.New(coupling.N, c.NumClbits, c.Name)
	if err := out.AppendAll(best.gates...); err != nil {
		return nil, errors.Wrap(err, "assemble routed circuit")
	}
	r.logger.Debug("routed circuit",
		zap.String("circuit", c.Name),
		zap.Int("swaps", best.swaps),
		zap.Ints("initial_layout", bestInitial),
		zap.Ints("final_layout", best.final),
	)
	return newResult(out, bestInitial, best.final, best.swaps), nil
}

// OptimizeLayout decomposes c into the router's basis, routes it and decomposes again so the
// inserted swaps are simplified together with the surrounding gates.
func (r *Router) OptimizeLayout(ctx context.Context, c *circuit.Circuit, coupling *graph.Graph) (*Result, error) {
	if err := checkConnected(c, coupling); err != nil {
		return nil, err
	}
	pre, err := r.decomposer.Run(c)
	if err != nil {
		return nil, errors.Wrap(err, "decompose before routing")
	}
	routed, err := r.Route(ctx, pre, coupling)
	if err != nil {
		return nil, err
	}
	post, err := r.decomposer.Run(routed.Circuit)
	if err != nil {
		return nil, errors.Wrap(err, "decompose after routing")
	}
	return newResult(post, routed.InitialLayout, routed.FinalLayout, routed.Swaps), nil
}

// OptimizeLayout routes with default options.
func OptimizeLayout(ctx context.Context, c *circuit.Circuit, couplingMap [][2]int) (*Result, error) {
	coupling, err := graph.FromPairs(couplingMap)
	if err != nil {
		return nil, err
	}
	r, err := NewRouter(DefaultOptions(), nil)
	if err != nil {
		return nil, err
	}
	return r.OptimizeLayout(ctx, c, coupling)
}

// VerifyCoupling checks that every gate on two or more qubits, barriers aside, acts on a coupled
// pair.
func VerifyCoupling(c *circuit.Circuit, coupling *graph.Graph) error {
	for i, g := range c.Gates {
		if g.IsDirective() || len(g.Qubits) < 2 {
			continue
		}
		if len(g.Qubits) > 2 {
			return errors.Errorf("gate %d (%s) acts on %d qubits", i, g, len(g.Qubits))
		}
		if !coupling.HasEdge(g.Qubits[0], g.Qubits[1]) {
			return errors.Errorf("gate %d (%s) acts on uncoupled qubits", i, g)
		}
	}
	return nil
}

func checkConnected(c *circuit.Circuit, coupling *graph.Graph) error {
	if comp := coupling.LargestComponent(); len(comp) < c.NumQubits {
		return errors.Wrapf(ErrDisconnectedGraph, "circuit %q needs %d connected qubits, largest component has %d",
			c.Name, c.NumQubits, len(comp))
	}
	return nil
}

func checkRoutable(c *circuit.Circuit, coupling *graph.Graph) error {
	if err := checkConnected(c, coupling); err != nil {
		return err
	}
	for i, g := range c.Gates {
		if !g.IsDirective() && len(g.Qubits) > 2 {
			return errors.Wrapf(transpile.ErrUnsupportedGate, "gate %d (%s): router handles at most two qubits per gate", i, g)
		}
	}
	return nil
}

func newResult(c *circuit.Circuit, initial, final Layout, swaps int) *Result {
	return &Result{
		Circuit:       c,
		Depth:         c.Depth(),
		Size:          c.Size(),
		GateCounts:    c.CountOps(),
		InitialLayout: initial,
		FinalLayout:   final,
		Swaps:         swaps,
	}
}

func twoQubitGates(gates []circuit.Gate) []circuit.Gate {
	var out []circuit.Gate
	for _, g := range gates {
		if !g.IsDirective() && len(g.Qubits) == 2 {
			out = append(out, g)
		}
	}
	return out
}

func reversed(gates []circuit.Gate) []circuit.Gate {
	out := make([]circuit.Gate, len(gates))
	for i, g := range gates {
		out[len(gates)-1-i] = g
	}
	return out
}
