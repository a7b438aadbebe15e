package metrics

import (
	"fmt"
	"math"

	"github.com/g8a9/confint/internal/statistics"
)

// MAE returns the mean absolute error.
func MAE(yTrue, yPred []float64, args statistics.Args) (float64, error) {
	if err := decodeArgs(nil, args, &struct{}{}); err != nil {
		return 0, fmt.Errorf("mae: %w", err)
	}
	return meanOf("mae", yTrue, yPred, func(d float64) float64 { return math.Abs(d) })
}

type mseArgs struct {
	Squared bool `mapstructure:"squared"`
}

// MSE returns the mean squared error. With {"squared": false} it returns the
// root mean squared error instead.
func MSE(yTrue, yPred []float64, args statistics.Args) (float64, error) {
	var a mseArgs
	if err := decodeArgs(map[string]any{"squared": true}, args, &a); err != nil {
		return 0, fmt.Errorf("mse: %w", err)
	}
	v, err := meanOf("mse", yTrue, yPred, func(d float64) float64 { return d * d })
	if err != nil || a.Squared {
		return v, err
	}
	return math.Sqrt(v), nil
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred []float64, args statistics.Args) (float64, error) {
	if err := decodeArgs(nil, args, &struct{}{}); err != nil {
		return 0, fmt.Errorf("rmse: %w", err)
	}
	v, err := meanOf("rmse", yTrue, yPred, func(d float64) float64 { return d * d })
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

func meanOf(name string, yTrue, yPred []float64, f func(float64) float64) (float64, error) {
	if err := checkLengths(yTrue, yPred); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("%s: no samples", name)
	}
	sum := 0.0
	for i := range yTrue {
		sum += f(yPred[i] - yTrue[i])
	}
	return sum / float64(len(yTrue)), nil
}
