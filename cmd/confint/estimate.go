package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/config"
	"github.com/g8a9/confint/internal/dataset"
	"github.com/g8a9/confint/internal/metrics"
	"github.com/g8a9/confint/internal/reporting"
	"github.com/g8a9/confint/internal/statistics"
)

// newLoader is swapped in tests that need a fake blob client.
var newLoader = dataset.NewLoader

// outputFlags are shared by every command that produces a report.
type outputFlags struct {
	format   string
	output   string
	minLower float64
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", reporting.FormatTable,
		"Output format: "+strings.Join(reporting.Formats, "|"))
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Float64Var(&o.minLower, "min-lower", 0, "Exit with code 1 when the lower bound is below this value")
}

func (o *outputFlags) validate() error {
	if !slices.Contains(reporting.Formats, o.format) {
		return fmt.Errorf("unsupported format %q (want one of %s)", o.format, strings.Join(reporting.Formats, ", "))
	}
	return nil
}

// threshold returns --min-lower when it was set on the command line.
func (o *outputFlags) threshold(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("min-lower") {
		return nil
	}
	v := o.minLower
	return &v
}

// estimate loads the data a run file points at and computes its interval.
func estimate(ctx context.Context, rf *config.RunFile) (*reporting.Report, error) {
	if err := rf.Validate(); err != nil {
		return nil, err
	}
	metric, err := metrics.Create(rf.Metric.Name)
	if err != nil {
		return nil, err
	}

	loader := newLoader()
	truth, err := loader.LoadColumn(ctx, rf.Truth)
	if err != nil {
		return nil, err
	}
	preds, err := loader.LoadColumns(ctx, rf.Predictions)
	if err != nil {
		return nil, err
	}

	slog.Debug("Estimating interval", "method", rf.Method, "metric", metric.Name(), "samples", len(truth), "runs", len(preds))

	args := statistics.Args(rf.Metric.Args)
	var res *statistics.ConfidenceResult
	switch rf.Method {
	case config.MethodBootstrap:
		res, err = statistics.BootstrapTest(truth, preds[0], metric.Score, &statistics.BootstrapOptions{
			Iterations: rf.Iterations,
			CILevel:    rf.CILevel,
			Args:       args,
		})
	case config.MethodSeeds:
		res, err = statistics.SeedAggregate(truth, preds, metric.Score, &statistics.SeedOptions{
			CILevel: rf.CILevel,
			Args:    args,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metric.Name(), err)
	}

	return &reporting.Report{
		Name:      rf.Name,
		Method:    string(rf.Method),
		Metric:    metric.Name(),
		Samples:   len(truth),
		Runs:      len(preds),
		Timestamp: time.Now().UTC(),
		MinLower:  rf.MinLower,
		Result:    res,
	}, nil
}

// emit writes the report and turns a failed threshold into a ThresholdError.
func emit(cmd *cobra.Command, r *reporting.Report, format, output string) error {
	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	if err := reporting.Write(w, r, format); err != nil {
		return err
	}
	if format == reporting.FormatTable {
		if _, err := fmt.Fprintf(w, "\n%s", reporting.FormatSummary(r)); err != nil {
			return err
		}
	}
	if output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output) //nolint:errcheck
	}

	if !r.Passed() {
		return &ThresholdError{Lower: r.Result.CILower, MinLower: *r.MinLower}
	}
	return nil
}

// parseMetricArgs turns repeated key=value flags into metric arguments.
// Values stay strings; each metric converts them to its own argument types,
// so pos_label=01 still matches the label "01".
func parseMetricArgs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	args := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", p)
		}
		args[key] = raw
	}
	return args, nil
}
