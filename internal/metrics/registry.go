package metrics

//go:generate go tool mockgen -source registry.go -destination mock_metric.go -package metrics

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strconv"

	"github.com/g8a9/confint/internal/statistics"
	"github.com/go-viper/mapstructure/v2"
)

type Type string

const (
	TypeAccuracy  Type = "accuracy"
	TypePrecision Type = "precision"
	TypeRecall    Type = "recall"
	TypeF1        Type = "f1"

	// Regression metrics parse labels as floats.
	TypeMAE  Type = "mae"
	TypeMSE  Type = "mse"
	TypeRMSE Type = "rmse"
)

// Metric scores string labels, the form labels take when read from files.
type Metric interface {
	// Name returns the registry name
	Name() string

	// Score computes the metric; args are the metric's keyword arguments
	Score(yTrue, yPred []string, args statistics.Args) (float64, error)
}

type labelMetric struct {
	name  Type
	score statistics.ScoreFunc[string]
}

func (m *labelMetric) Name() string { return string(m.name) }

func (m *labelMetric) Score(yTrue, yPred []string, args statistics.Args) (float64, error) {
	return m.score(yTrue, yPred, args)
}

type numericMetric struct {
	name  Type
	score statistics.ScoreFunc[float64]
}

func (m *numericMetric) Name() string { return string(m.name) }

func (m *numericMetric) Score(yTrue, yPred []string, args statistics.Args) (float64, error) {
	t, err := parseFloats(yTrue)
	if err != nil {
		return 0, fmt.Errorf("%s: y_true: %w", m.name, err)
	}
	p, err := parseFloats(yPred)
	if err != nil {
		return 0, fmt.Errorf("%s: y_pred: %w", m.name, err)
	}
	return m.score(t, p, args)
}

// Create returns the registered metric with the given name.
func Create(name string) (Metric, error) {
	switch Type(name) {
	case TypeAccuracy:
		return &labelMetric{name: TypeAccuracy, score: Accuracy[string]}, nil
	case TypePrecision:
		return &labelMetric{name: TypePrecision, score: Precision[string]}, nil
	case TypeRecall:
		return &labelMetric{name: TypeRecall, score: Recall[string]}, nil
	case TypeF1:
		return &labelMetric{name: TypeF1, score: F1[string]}, nil
	case TypeMAE:
		return &numericMetric{name: TypeMAE, score: MAE}, nil
	case TypeMSE:
		return &numericMetric{name: TypeMSE, score: MSE}, nil
	case TypeRMSE:
		return &numericMetric{name: TypeRMSE, score: RMSE}, nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid metric", name)
	}
}

// Bounded reports whether scores of the named metric lie in [0, 1]. The
// error metrics are unbounded.
func Bounded(name string) bool {
	switch Type(name) {
	case TypeMAE, TypeMSE, TypeRMSE:
		return false
	}
	return true
}

// Names lists the registered metric names in sorted order.
func Names() []string {
	names := []string{
		string(TypeAccuracy), string(TypePrecision), string(TypeRecall), string(TypeF1),
		string(TypeMAE), string(TypeMSE), string(TypeRMSE),
	}
	sort.Strings(names)
	return names
}

// decodeArgs layers args over defaults and decodes the result into out.
// Unknown keys are rejected.
func decodeArgs(defaults map[string]any, args statistics.Args, out any) error {
	merged := make(map[string]any, len(defaults)+len(args))
	maps.Copy(merged, defaults)
	maps.Copy(merged, args)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(scalarToString),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(merged)
}

// scalarToString formats scalars bound for string fields with fmt.Sprint,
// so a pos_label of true matches the label "true" rather than "1".
func scalarToString(from, to reflect.Kind, data any) (any, error) {
	if to != reflect.String {
		return data, nil
	}
	switch from {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(data), nil
	}
	return data, nil
}

func parseFloats(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}
