package qec

import (
	"context"
	"fmt"
	"sort"

	"qcirc/internal/circuit"

	"go.uber.org/zap"
)

// Evolver runs a permutation circuit on a computational basis state.
type Evolver interface {
	Evolve(ctx context.Context, c *circuit.Circuit, initial []bool) ([]bool, []bool, error)
}

// PatternResult is the outcome of decoding one set of injected bit flips.
type PatternResult struct {
	Flips []int
	// Corrected is true when every data qubit holds the logical value after decoding, for both
	// logical 0 and logical 1.
	Corrected bool
	// MajorityRecovered is true when a majority vote over the data qubits still yields the
	// logical value.
	MajorityRecovered bool
	// Residual lists the data qubits left flipped after decoding logical 0.
	Residual []int
}

func (p PatternResult) String() string {
	return fmt.Sprintf("flips=%v corrected=%t majority=%t residual=%v", p.Flips, p.Corrected, p.MajorityRecovered, p.Residual)
}

// Report collects the decoded outcome of every enumerated flip pattern.
type Report struct {
	Code     string
	Patterns []PatternResult
}

// Flagged returns the patterns the decoder did not fully correct.
func (r *Report) Flagged() []PatternResult {
	var out []PatternResult
	for _, p := range r.Patterns {
		if !p.Corrected {
			out = append(out, p)
		}
	}
	return out
}

// Coverage returns the number of corrected patterns and the number enumerated.
func (r *Report) Coverage() (int, int) {
	n := 0
	for _, p := range r.Patterns {
		if p.Corrected {
			n++
		}
	}
	return n, len(r.Patterns)
}

// Lookup finds the result for an exact flip set.
func (r *Report) Lookup(flips ...int) (PatternResult, bool) {
	key := fmt.Sprint(sortedCopy(flips))
	for _, p := range r.Patterns {
		if fmt.Sprint(p.Flips) == key {
			return p, true
		}
	}
	return PatternResult{}, false
}

// Analyzer simulates decoders against enumerated bit-flip patterns.
type Analyzer struct {
	sim    Evolver
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer backed by the given basis-state simulator.
func NewAnalyzer(sim Evolver, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{sim: sim, logger: logger}
}

// AnalyzeSingleErrorDecoder runs encoder, flips and decoder for no flip and each single flip.
// The logical value is read from qubit 0.
func (a *Analyzer) AnalyzeSingleErrorDecoder(ctx context.Context) (*Report, error) {
	encoder := CreateEncoder()
	decoder := CreateSingleErrorDecoder()
	report := &Report{Code: decoder.Name}

	for _, flips := range flipPatterns(SingleCodeQubits, 1) {
		pipeline, err := withFlips(encoder, flips, decoder)
		if err != nil {
			return nil, err
		}
		res := PatternResult{Flips: flips, Corrected: true, MajorityRecovered: true}
		for _, logical := range []bool{false, true} {
			initial := []bool{logical, false, false}
			final, _, err := a.sim.Evolve(ctx, pipeline, initial)
			if err != nil {
				return nil, fmt.Errorf("simulate flips %v: %w", flips, err)
			}
			if final[0] != logical {
				res.Corrected = false
				res.MajorityRecovered = false
				if !logical {
					res.Residual = []int{0}
				}
			}
		}
		a.record(report, res)
	}
	return report, nil
}

// AnalyzeDoubleErrorDecoder injects every 0-, 1- and 2-flip pattern on the data qubits of a
// five-fold repetition state and decodes it.
func (a *Analyzer) AnalyzeDoubleErrorDecoder(ctx context.Context) (*Report, error) {
	decoder := CreateDoubleErrorDecoder()
	report := &Report{Code: decoder.Name}
	empty := circuit.New(DoubleCodeQubits, 0, "prepare")

	for _, flips := range flipPatterns(DoubleDataQubits, 2) {
		pipeline, err := withFlips(empty, flips, decoder)
		if err != nil {
			return nil, err
		}
		res := PatternResult{Flips: flips, Corrected: true, MajorityRecovered: true}
		for _, logical := range []bool{false, true} {
			initial := make([]bool, DoubleCodeQubits)
			for q := 0; q < DoubleDataQubits; q++ {
				initial[q] = logical
			}
			final, _, err := a.sim.Evolve(ctx, pipeline, initial)
			if err != nil {
				return nil, fmt.Errorf("simulate flips %v: %w", flips, err)
			}

			var wrong []int
			for q := 0; q < DoubleDataQubits; q++ {
				if final[q] != logical {
					wrong = append(wrong, q)
				}
			}
			if len(wrong) > 0 {
				res.Corrected = false
			}
			if 2*len(wrong) >= DoubleDataQubits {
				res.MajorityRecovered = false
			}
			if !logical {
				res.Residual = wrong
			}
		}
		a.record(report, res)
	}
	return report, nil
}

func (a *Analyzer) record(report *Report, res PatternResult) {
	report.Patterns = append(report.Patterns, res)
	if !res.Corrected {
		a.logger.Warn("decoder failed to correct flip pattern",
			zap.String("code", report.Code),
			zap.Ints("flips", res.Flips),
			zap.Ints("residual", res.Residual),
			zap.Bool("majority_recovered", res.MajorityRecovered),
		)
		return
	}
	a.logger.Debug("flip pattern corrected", zap.String("code", report.Code), zap.Ints("flips", res.Flips))
}

// withFlips returns prefix, then an X on every flipped qubit, then decoder.
func withFlips(prefix *circuit.Circuit, flips []int, decoder *circuit.Circuit) (*circuit.Circuit, error) {
	errs := circuit.New(decoder.NumQubits, decoder.NumClbits, "errors")
	for _, q := range flips {
		if err := errs.Append(circuit.X(q)); err != nil {
			return nil, err
		}
	}
	out, err := circuit.Compose(prefix, errs)
	if err != nil {
		return nil, err
	}
	return circuit.Compose(out, decoder)
}

// flipPatterns enumerates every subset of {0..n-1} with at most maxFlips elements, smallest
// subsets first, each subset in ascending lexical order.
func flipPatterns(n, maxFlips int) [][]int {
	var out [][]int
	var walk func(start int, cur []int, size int)
	walk = func(start int, cur []int, size int) {
		if len(cur) == size {
			out = append(out, append([]int{}, cur...))
			return
		}
		for q := start; q < n; q++ {
			walk(q+1, append(cur, q), size)
		}
	}
	for size := 0; size <= maxFlips; size++ {
		walk(0, nil, size)
	}
	return out
}

func sortedCopy(in []int) []int {
	out := append([]int{}, in...)
	sort.Ints(out)
	return out
}
