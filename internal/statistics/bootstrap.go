package statistics

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultBootstrapIterations is the number of resamples when
	// BootstrapOptions.Iterations is zero.
	DefaultBootstrapIterations = 200

	// BootstrapSeed seeds every bootstrap run, so identical inputs always
	// produce identical intervals.
	BootstrapSeed int64 = 12345
)

// BootstrapOptions configures BootstrapTest. Zero values select defaults.
type BootstrapOptions struct {
	Iterations int
	CILevel    int
	Args       Args
}

// BootstrapTest estimates a confidence interval for score by resampling the
// test set with replacement and taking percentiles of the resampled scores.
//
// Any error returned by score aborts the run and is returned wrapped.
func BootstrapTest[T any](yTrue, yPred []T, score ScoreFunc[T], opts *BootstrapOptions) (*ConfidenceResult, error) {
	var o BootstrapOptions
	if opts != nil {
		o = *opts
	}
	if o.CILevel == 0 {
		o.CILevel = DefaultCILevel
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultBootstrapIterations
	}

	if err := ValidateCILevel(o.CILevel); err != nil {
		return nil, err
	}
	if o.Iterations < 1 {
		return nil, fmt.Errorf("%w: n_iter must be at least 1, got %d", ErrInvalidParameter, o.Iterations)
	}
	if score == nil {
		return nil, fmt.Errorf("%w: score function is nil", ErrInvalidParameter)
	}
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, err
	}

	n := len(yTrue)
	args := o.Args.clone()
	rng := rand.New(rand.NewSource(BootstrapSeed))

	slog.Debug("Bootstrapping test set", "samples", n, "iterations", o.Iterations, "ci_level", o.CILevel)

	scores := make([]float64, o.Iterations)
	sampleTrue := make([]T, n)
	samplePred := make([]T, n)
	for i := 0; i < o.Iterations; i++ {
		for j := 0; j < n; j++ {
			idx := rng.Intn(n)
			sampleTrue[j] = yTrue[idx]
			samplePred[j] = yPred[idx]
		}
		s, err := score(sampleTrue, samplePred, args)
		if err != nil {
			return nil, fmt.Errorf("bootstrap iteration %d: %w", i, err)
		}
		scores[i] = s
	}

	m := stat.Mean(scores, nil)

	sort.Float64s(scores)
	alpha := Alpha(o.CILevel)
	iters := o.Iterations

	return &ConfidenceResult{
		CILevel: o.CILevel,
		Mean:    m,
		CILower: Percentile(scores, alpha*100),
		CIUpper: Percentile(scores, (1-alpha)*100),
		NIter:   &iters,
	}, nil
}

// Percentile returns the p-th percentile (0 <= p <= 100) of an ascending
// sorted sample, interpolating linearly between the two nearest order
// statistics. Returns NaN for an empty sample.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
