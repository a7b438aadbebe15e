package statistics

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeedOptions configures SeedAggregate. Zero values select defaults.
type SeedOptions struct {
	CILevel int
	Args    Args
}

// SeedAggregate estimates a confidence interval from independent runs (for
// example, one prediction set per random seed). Each run is scored once and
// the interval is mean ± t * sd/sqrt(k) with k-1 degrees of freedom.
//
// At least two runs are required; a single run has no defined standard error.
func SeedAggregate[T any](yTrue []T, yPreds [][]T, score ScoreFunc[T], opts *SeedOptions) (*ConfidenceResult, error) {
	var o SeedOptions
	if opts != nil {
		o = *opts
	}
	if o.CILevel == 0 {
		o.CILevel = DefaultCILevel
	}

	if err := ValidateCILevel(o.CILevel); err != nil {
		return nil, err
	}
	if score == nil {
		return nil, fmt.Errorf("%w: score function is nil", ErrInvalidParameter)
	}
	k := len(yPreds)
	if k < 2 {
		return nil, fmt.Errorf("%w: need at least 2 runs for a t interval, got %d", ErrInsufficientSamples, k)
	}
	for i, pred := range yPreds {
		if err := checkPair(yTrue, pred); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}

	args := o.Args.clone()

	slog.Debug("Aggregating runs", "samples", len(yTrue), "runs", k, "ci_level", o.CILevel)

	scores := make([]float64, k)
	for i, pred := range yPreds {
		s, err := score(yTrue, pred, args)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		scores[i] = s
	}

	m, half := tInterval(scores, o.CILevel)

	return &ConfidenceResult{
		CILevel: o.CILevel,
		Mean:    m,
		CILower: m - half,
		CIUpper: m + half,
	}, nil
}

// tInterval returns the sample mean and the half-width of the two-sided
// t interval. len(scores) must be at least 2.
func tInterval(scores []float64, level int) (mean, half float64) {
	k := float64(len(scores))
	mean = stat.Mean(scores, nil)

	// stat.StdDev applies Bessel's correction. Its compensated sum can dip
	// just below zero for identical scores, which sqrt turns into NaN.
	sd := stat.StdDev(scores, nil)
	if sd == 0 || math.IsNaN(sd) {
		return mean, 0
	}

	confidence := float64(level) / 100
	t := TCritical((1+confidence)/2, len(scores)-1)
	return mean, t * sd / math.Sqrt(k)
}

// TCritical returns the quantile of Student's t distribution with df degrees
// of freedom at cumulative probability p.
func TCritical(p float64, df int) float64 {
	switch {
	case p >= 1:
		return math.Inf(1)
	case p <= 0:
		return math.Inf(-1)
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}.Quantile(p)
}
