package transpile

import (
	"fmt"

	"qcirc/internal/circuit"

	"go.uber.org/zap"
)

const (
	maxExpansionDepth = 8
	maxPasses         = 64
)

// Decomposer rewrites circuits into a fixed alphabet at a fixed optimisation level. It holds no
// per-call state and is safe for concurrent use.
type Decomposer struct {
	target *Target
	level  int
	logger *zap.Logger
}

// New validates basis and level. An empty basis selects DefaultBasis.
func New(basis []string, level int, logger *zap.Logger) (*Decomposer, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidLevel, level, MinLevel, MaxLevel)
	}
	t, err := NewTarget(basis)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decomposer{target: t, level: level, logger: logger}, nil
}

// Decompose rewrites c into basis at the given optimisation level.
//
//	0: translation only; gates already in the basis are untouched
//	1: + merge single-qubit runs, drop identities, cancel adjacent self-inverse pairs
//	2: + cancellation across commuting gates
//	3: + drop diagonal gates that only precede a measurement
func Decompose(c *circuit.Circuit, basis []string, level int) (*circuit.Circuit, error) {
	d, err := New(basis, level, nil)
	if err != nil {
		return nil, err
	}
	return d.Run(c)
}

func (d *Decomposer) Target() *Target { return d.target }

func (d *Decomposer) Level() int { return d.level }

// Run translates c and then simplifies it until no pass changes anything.
func (d *Decomposer) Run(c *circuit.Circuit) (*circuit.Circuit, error) {
	gates := make([]circuit.Gate, 0, len(c.Gates))
	for i, g := range c.Gates {
		out, err := d.translate(g, 0)
		if err != nil {
			return nil, fmt.Errorf("gate %d (%s): %w", i, g, err)
		}
		gates = append(gates, out...)
	}

	passes := 0
	if d.level > 0 {
		for ; passes < maxPasses; passes++ {
			var changed bool
			gates, changed = d.optimize(c.NumQubits, gates)
			if !changed {
				break
			}
		}
		if passes == maxPasses {
			d.logger.Warn("optimisation did not converge", zap.String("circuit", c.Name), zap.Int("passes", passes))
		}
	}

	out := circuit.New(c.NumQubits, c.NumClbits, c.Name)
	if err := out.AppendAll(gates...); err != nil {
		return nil, err
	}
	d.logger.Debug("decomposed circuit",
		zap.String("circuit", c.Name),
		zap.Int("level", d.level),
		zap.Int("size_in", c.Size()),
		zap.Int("size_out", out.Size()),
		zap.Int("passes", passes),
	)
	return out, nil
}

func (d *Decomposer) translate(g circuit.Gate, depth int) ([]circuit.Gate, error) {
	if depth > maxExpansionDepth {
		return nil, fmt.Errorf("%w: expansion of %s does not terminate", ErrUnsupportedGate, g.Name)
	}
	switch g.Kind {
	case circuit.KindMeasure, circuit.KindBarrier:
		return []circuit.Gate{g}, nil
	case circuit.KindSingle:
		if d.target.Allows(g.Name) {
			return []circuit.Gate{g}, nil
		}
		m, err := g.Matrix()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedGate, err)
		}
		return d.target.synthesize(m, g.Target()), nil
	case circuit.KindControlled, circuit.KindSwap, circuit.KindToffoli:
		if d.target.Allows(g.Name) {
			return []circuit.Gate{g}, nil
		}
		if !HasRule(g.Name) {
			return nil, fmt.Errorf("%w: no rule for %s", ErrUnsupportedGate, g.Name)
		}
		var out []circuit.Gate
		for _, sub := range rules[g.Name](g) {
			xs, err := d.translate(sub, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, xs...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupportedGate, g.Kind)
	}
}
