package statistics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runScores builds one single-element prediction set per score; paired with
// echoScore, each run evaluates to exactly the given value.
func runScores(scores ...float64) ([]float64, [][]float64) {
	preds := make([][]float64, len(scores))
	for i, s := range scores {
		preds[i] = []float64{s}
	}
	return []float64{0}, preds
}

func echoScore(_, yPred []float64, _ Args) (float64, error) {
	return yPred[0], nil
}

func TestSeedAggregate_KnownScores(t *testing.T) {
	scores := []float64{0.80, 0.82, 0.78, 0.81}
	yTrue, yPreds := runScores(scores...)

	ci, err := SeedAggregate(yTrue, yPreds, echoScore, &SeedOptions{CILevel: 95})
	require.NoError(t, err)

	mean := 0.8025
	sumSq := 0.0
	for _, s := range scores {
		sumSq += (s - mean) * (s - mean)
	}
	se := math.Sqrt(sumSq/3) / 2
	half := 3.182446305284263 * se

	assert.InDelta(t, mean, ci.Mean, 1e-12)
	assert.InDelta(t, mean-half, ci.CILower, 1e-9)
	assert.InDelta(t, mean+half, ci.CIUpper, 1e-9)
	assert.InDelta(t, 0.7753, ci.CILower, 1e-4)
	assert.InDelta(t, 0.8297, ci.CIUpper, 1e-4)
	assert.Equal(t, 95, ci.CILevel)
	assert.Nil(t, ci.NIter)
}

func TestSeedAggregate_IdenticalScores(t *testing.T) {
	t.Run("exactly representable", func(t *testing.T) {
		yTrue, yPreds := runScores(0.75, 0.75, 0.75, 0.75)
		ci, err := SeedAggregate(yTrue, yPreds, echoScore, nil)
		require.NoError(t, err)
		assert.Equal(t, 0.75, ci.Mean)
		assert.Equal(t, ci.Mean, ci.CILower)
		assert.Equal(t, ci.Mean, ci.CIUpper)
	})

	t.Run("rounding noise", func(t *testing.T) {
		yTrue, yPreds := runScores(0.8, 0.8, 0.8, 0.8, 0.8)
		ci, err := SeedAggregate(yTrue, yPreds, echoScore, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, ci.Mean, 1e-12)
		assert.InDelta(t, ci.Mean, ci.CILower, 1e-12)
		assert.InDelta(t, ci.Mean, ci.CIUpper, 1e-12)
	})

	t.Run("full coverage stays finite", func(t *testing.T) {
		yTrue, yPreds := runScores(0.5, 0.5)
		ci, err := SeedAggregate(yTrue, yPreds, echoScore, &SeedOptions{CILevel: 100})
		require.NoError(t, err)
		assert.Equal(t, 0.5, ci.CILower)
		assert.Equal(t, 0.5, ci.CIUpper)
	})
}

func TestSeedAggregate_FullCoverageIsUnbounded(t *testing.T) {
	yTrue, yPreds := runScores(0.7, 0.8, 0.9)
	ci, err := SeedAggregate(yTrue, yPreds, echoScore, &SeedOptions{CILevel: 100})
	require.NoError(t, err)
	assert.True(t, math.IsInf(ci.CIUpper, 1))
	assert.True(t, math.IsInf(ci.CILower, -1))
}

func TestSeedAggregate_InsufficientRuns(t *testing.T) {
	for _, k := range []int{0, 1} {
		yTrue, yPreds := runScores(make([]float64, k)...)
		ci, err := SeedAggregate(yTrue, yPreds, echoScore, nil)
		require.ErrorIs(t, err, ErrInsufficientSamples, "k=%d", k)
		assert.Nil(t, ci)
	}
}

func TestSeedAggregate_InvalidCILevel(t *testing.T) {
	yTrue, yPreds := runScores(0.7, 0.8, 0.9)

	for _, level := range []int{-5, 150} {
		calls := 0
		score := func(yt, yp []float64, args Args) (float64, error) {
			calls++
			return echoScore(yt, yp, args)
		}
		_, err := SeedAggregate(yTrue, yPreds, score, &SeedOptions{CILevel: level})
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Zero(t, calls)
	}
}

func TestSeedAggregate_InvalidInputs(t *testing.T) {
	t.Run("mismatched run", func(t *testing.T) {
		_, err := SeedAggregate([]int{1, 0}, [][]int{{1, 0}, {1}}, func(_, _ []int, _ Args) (float64, error) { return 0, nil }, nil)
		require.ErrorIs(t, err, ErrLengthMismatch)
		assert.Contains(t, err.Error(), "run 1")
	})

	t.Run("empty truth", func(t *testing.T) {
		_, err := SeedAggregate([]int{}, [][]int{{}, {}}, func(_, _ []int, _ Args) (float64, error) { return 0, nil }, nil)
		require.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("nil score func", func(t *testing.T) {
		yTrue, yPreds := runScores(0.1, 0.2)
		_, err := SeedAggregate(yTrue, yPreds, nil, nil)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestSeedAggregate_ScoresEachRunOnce(t *testing.T) {
	yTrue, yPreds := runScores(0.6, 0.7, 0.8, 0.9, 1.0)
	args := Args{"average": "macro"}

	calls := 0
	score := func(yt, yp []float64, got Args) (float64, error) {
		calls++
		assert.Equal(t, "macro", got["average"])
		return echoScore(yt, yp, got)
	}

	_, err := SeedAggregate(yTrue, yPreds, score, &SeedOptions{Args: args})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestSeedAggregate_ScoreErrorPropagates(t *testing.T) {
	errBoom := errors.New("boom")
	yTrue, yPreds := runScores(0.6, 0.7, 0.8)

	score := func(yt, yp []float64, args Args) (float64, error) {
		if yp[0] == 0.7 {
			return 0, errBoom
		}
		return echoScore(yt, yp, args)
	}

	_, err := SeedAggregate(yTrue, yPreds, score, nil)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "run 1")
}

func TestSeedAggregate_WidensWithLevel(t *testing.T) {
	yTrue, yPreds := runScores(0.71, 0.74, 0.69, 0.77, 0.72)

	ci90, err := SeedAggregate(yTrue, yPreds, echoScore, &SeedOptions{CILevel: 90})
	require.NoError(t, err)
	ci99, err := SeedAggregate(yTrue, yPreds, echoScore, &SeedOptions{CILevel: 99})
	require.NoError(t, err)

	assert.Greater(t, ci99.Width(), ci90.Width())
	assert.InDelta(t, ci90.Mean, ci99.Mean, 1e-15)
}

func TestTCritical(t *testing.T) {
	tests := []struct {
		df   int
		want float64
	}{
		{1, 12.706},
		{2, 4.303},
		{3, 3.182},
		{10, 2.228},
		{30, 2.042},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TCritical(0.975, tt.df), 1e-3, "df=%d", tt.df)
	}

	assert.InDelta(t, 1.96, TCritical(0.975, 100000), 1e-3)
	assert.Equal(t, 0.0, TCritical(0.5, 4))
}
