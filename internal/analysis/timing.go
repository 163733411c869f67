package analysis

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

var ErrNoSamples = errors.New("no timing samples")

// Timing summarises repeated wall-clock measurements.
type Timing struct {
	Runs int
	Mean time.Duration
	// Std is the population standard deviation.
	Std time.Duration
	Min time.Duration
	Max time.Duration
}

// Summarize computes mean, standard deviation and range of samples.
func Summarize(samples []time.Duration) (Timing, error) {
	if len(samples) == 0 {
		return Timing{}, ErrNoSamples
	}
	t := Timing{Runs: len(samples), Min: samples[0], Max: samples[0]}
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s)
		t.Min = min(t.Min, s)
		t.Max = max(t.Max, s)
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	t.Mean = time.Duration(math.Round(mean))
	t.Std = time.Duration(math.Round(math.Sqrt(variance)))
	return t, nil
}

// Benchmark calls fn runs times and summarises the elapsed time of each call. The first error
// from fn aborts the benchmark.
func Benchmark(ctx context.Context, runs int, fn func(ctx context.Context) error) (Timing, error) {
	if runs <= 0 {
		return Timing{}, ErrNoSamples
	}
	samples := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return Timing{}, err
		}
		start := time.Now()
		if err := fn(ctx); err != nil {
			return Timing{}, err
		}
		samples = append(samples, time.Since(start))
	}
	return Summarize(samples)
}
