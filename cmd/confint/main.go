package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess         = 0 // Interval computed and any threshold met
	ExitThresholdFailed = 1 // Lower bound below --min-lower
	ExitError           = 2 // Configuration, data or metric error
)

// ThresholdError indicates the interval was computed but its lower bound
// fell below the requested minimum.
type ThresholdError struct {
	Lower    float64
	MinLower float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("lower bound %.4f is below the minimum %.4f", e.Lower, e.MinLower)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var thresholdErr *ThresholdError
		if errors.As(err, &thresholdErr) {
			os.Exit(ExitThresholdFailed)
		}

		os.Exit(ExitError)
	}
}
