package statistics

import (
	"errors"
	"fmt"
	"maps"
)

// Errors returned by the estimators. Metric errors are wrapped, not replaced,
// so errors.Is/As still reach whatever the score function returned.
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrEmptyInput          = errors.New("empty input")
	ErrLengthMismatch      = errors.New("length mismatch")
)

// DefaultCILevel is used when an options struct leaves CILevel unset.
const DefaultCILevel = 95

// ConfidenceResult holds a point estimate and its interval bounds.
type ConfidenceResult struct {
	CILevel int     `json:"ci_level" yaml:"ci_level"`
	Mean    float64 `json:"mean" yaml:"mean"`
	CILower float64 `json:"ci_lower" yaml:"ci_lower"`
	CIUpper float64 `json:"ci_upper" yaml:"ci_upper"`

	// NIter is the number of bootstrap resamples. Nil for seed aggregation.
	NIter *int `json:"n_iter,omitempty" yaml:"n_iter,omitempty"`
}

// Width returns CIUpper - CILower.
func (r *ConfidenceResult) Width() float64 {
	return r.CIUpper - r.CILower
}

// Args are keyword arguments forwarded verbatim to a score function.
type Args map[string]any

// clone returns a fresh map for a single estimator call. A nil receiver
// yields an empty, non-nil map.
func (a Args) clone() Args {
	out := make(Args, len(a))
	maps.Copy(out, a)
	return out
}

// ScoreFunc computes a scalar metric from ground truth and predictions.
// The slices passed in are only valid for the duration of the call; the
// bootstrap estimator reuses their backing arrays between resamples.
type ScoreFunc[T any] func(yTrue, yPred []T, args Args) (float64, error)

// ValidateCILevel rejects confidence levels outside (0, 100].
func ValidateCILevel(level int) error {
	if level <= 0 || level > 100 {
		return fmt.Errorf("%w: ci_level must be in (0, 100], got %d", ErrInvalidParameter, level)
	}
	return nil
}

// Alpha returns the probability mass excluded from each tail at the given
// confidence level, i.e. (100 - level) / 200.
func Alpha(level int) float64 {
	return float64(100-level) / 200
}

func checkPair[T any](yTrue, yPred []T) error {
	if len(yTrue) == 0 {
		return fmt.Errorf("%w: y_true has no samples", ErrEmptyInput)
	}
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w: y_true has %d samples, y_pred has %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	return nil
}
