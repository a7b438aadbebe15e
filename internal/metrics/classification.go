package metrics

import (
	"fmt"

	"github.com/g8a9/confint/internal/statistics"
)

// Averaging strategies for precision, recall and F1.
const (
	AverageBinary   = "binary"
	AverageMicro    = "micro"
	AverageMacro    = "macro"
	AverageWeighted = "weighted"
)

type accuracyArgs struct {
	Normalize bool `mapstructure:"normalize"`
}

// Accuracy returns the fraction of predictions equal to the ground truth.
// With args {"normalize": false} it returns the count of correct predictions.
func Accuracy[T comparable](yTrue, yPred []T, args statistics.Args) (float64, error) {
	var a accuracyArgs
	if err := decodeArgs(map[string]any{"normalize": true}, args, &a); err != nil {
		return 0, fmt.Errorf("accuracy: %w", err)
	}
	if err := checkLengths(yTrue, yPred); err != nil {
		return 0, fmt.Errorf("accuracy: %w", err)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	if !a.Normalize {
		return float64(correct), nil
	}
	return safeDivide(float64(correct), float64(len(yTrue)), 0), nil
}

// classificationArgs are the keyword arguments shared by Precision, Recall
// and F1. PosLabel is only consulted for binary averaging.
type classificationArgs[T comparable] struct {
	Average      string  `mapstructure:"average"`
	PosLabel     T       `mapstructure:"pos_label"`
	ZeroDivision float64 `mapstructure:"zero_division"`
}

var classificationDefaults = map[string]any{
	"average":       AverageBinary,
	"pos_label":     1,
	"zero_division": 0.0,
}

// labelCounts are per-label confusion counts.
type labelCounts struct {
	tp, fp, fn int
	support    int
}

// confusion tallies per-label counts. Labels are returned in first-seen order
// across yTrue then yPred, which keeps averaged scores deterministic.
func confusion[T comparable](yTrue, yPred []T) ([]T, map[T]*labelCounts) {
	var labels []T
	counts := make(map[T]*labelCounts)
	get := func(l T) *labelCounts {
		c, ok := counts[l]
		if !ok {
			c = &labelCounts{}
			counts[l] = c
			labels = append(labels, l)
		}
		return c
	}

	for _, l := range yTrue {
		get(l)
	}
	for i := range yTrue {
		t, p := get(yTrue[i]), get(yPred[i])
		t.support++
		if yTrue[i] == yPred[i] {
			t.tp++
			continue
		}
		t.fn++
		p.fp++
	}
	return labels, counts
}

// prf holds one precision/recall/F1 triple.
type prf struct {
	precision, recall, f1 float64
}

func scoreCounts(c labelCounts, zeroDivision float64) prf {
	return prf{
		precision: safeDivide(float64(c.tp), float64(c.tp+c.fp), zeroDivision),
		recall:    safeDivide(float64(c.tp), float64(c.tp+c.fn), zeroDivision),
		f1:        safeDivide(float64(2*c.tp), float64(2*c.tp+c.fp+c.fn), zeroDivision),
	}
}

func precisionRecallF1[T comparable](name string, yTrue, yPred []T, args statistics.Args) (prf, error) {
	var a classificationArgs[T]
	if err := decodeArgs(classificationDefaults, args, &a); err != nil {
		return prf{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := checkLengths(yTrue, yPred); err != nil {
		return prf{}, fmt.Errorf("%s: %w", name, err)
	}

	labels, counts := confusion(yTrue, yPred)

	switch a.Average {
	case AverageBinary:
		if len(labels) > 2 {
			return prf{}, fmt.Errorf("%s: target is multiclass (%d labels) but average is %q", name, len(labels), AverageBinary)
		}
		c, ok := counts[a.PosLabel]
		if !ok {
			if len(labels) == 2 {
				return prf{}, fmt.Errorf("%s: pos_label %v is not a valid label", name, a.PosLabel)
			}
			c = &labelCounts{}
		}
		return scoreCounts(*c, a.ZeroDivision), nil

	case AverageMicro:
		var total labelCounts
		for _, l := range labels {
			c := counts[l]
			total.tp += c.tp
			total.fp += c.fp
			total.fn += c.fn
		}
		return scoreCounts(total, a.ZeroDivision), nil

	case AverageMacro, AverageWeighted:
		var sum prf
		var weightSum float64
		for _, l := range labels {
			c := counts[l]
			w := 1.0
			if a.Average == AverageWeighted {
				w = float64(c.support)
			}
			s := scoreCounts(*c, a.ZeroDivision)
			sum.precision += w * s.precision
			sum.recall += w * s.recall
			sum.f1 += w * s.f1
			weightSum += w
		}
		if weightSum == 0 {
			z := a.ZeroDivision
			return prf{precision: z, recall: z, f1: z}, nil
		}
		return prf{
			precision: sum.precision / weightSum,
			recall:    sum.recall / weightSum,
			f1:        sum.f1 / weightSum,
		}, nil

	default:
		return prf{}, fmt.Errorf("%s: '%s' is not a valid average", name, a.Average)
	}
}

// Precision returns tp / (tp + fp). Accepts average, pos_label and zero_division.
func Precision[T comparable](yTrue, yPred []T, args statistics.Args) (float64, error) {
	s, err := precisionRecallF1("precision", yTrue, yPred, args)
	return s.precision, err
}

// Recall returns tp / (tp + fn). Accepts average, pos_label and zero_division.
func Recall[T comparable](yTrue, yPred []T, args statistics.Args) (float64, error) {
	s, err := precisionRecallF1("recall", yTrue, yPred, args)
	return s.recall, err
}

// F1 returns the harmonic mean of precision and recall. Accepts average,
// pos_label and zero_division.
func F1[T comparable](yTrue, yPred []T, args statistics.Args) (float64, error) {
	s, err := precisionRecallF1("f1", yTrue, yPred, args)
	return s.f1, err
}

func checkLengths[T any](yTrue, yPred []T) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("y_true has %d samples, y_pred has %d", len(yTrue), len(yPred))
	}
	return nil
}

func safeDivide(num, den, zeroDivision float64) float64 {
	if den == 0 {
		return zeroDivision
	}
	return num / den
}
