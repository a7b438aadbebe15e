package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdError(t *testing.T) {
	err := &ThresholdError{Lower: 0.71234, MinLower: 0.75}
	assert.Equal(t, "lower bound 0.7123 is below the minimum 0.7500", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantThreshold bool
	}{
		{"ThresholdError", &ThresholdError{Lower: 0.1, MinLower: 0.2}, true},
		{"regular error", errors.New("config error"), false},
		{"wrapped ThresholdError", fmt.Errorf("run: %w", &ThresholdError{}), true},
		{"joined ThresholdError", errors.Join(&ThresholdError{}, errors.New("additional context")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var thresholdErr *ThresholdError
			assert.Equal(t, tt.wantThreshold, errors.As(tt.err, &thresholdErr))
		})
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "confint", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"bootstrap", "seeds", "run", "validate", "metrics", "init"} {
		assert.Contains(t, names, want)
	}
}
