package main

import (
	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/config"
	"github.com/g8a9/confint/internal/dataset"
	"github.com/g8a9/confint/internal/metrics"
	"github.com/g8a9/confint/internal/statistics"
)

func newBootstrapCommand() *cobra.Command {
	var (
		truth      string
		pred       string
		metric     string
		iterations int
		ciLevel    int
		metricArgs []string
		out        outputFlags
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap a confidence interval from one prediction set",
		Long: `Resample the test set with replacement, score the metric on every resample
and report the mean and percentile interval of the resampled scores.

Resampling uses a fixed seed, so the same inputs always give the same interval.

Files are CSV with a header row, optionally .gz or .zst compressed, local or
az://account/container/blob. Append :column to pick a column.`,
		Example: `  confint bootstrap --truth test.csv:label --pred run1.csv:prediction --metric f1 --arg average=macro
  confint bootstrap --truth test.csv --pred run1.csv --iterations 1000 --min-lower 0.8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			args, err := parseMetricArgs(metricArgs)
			if err != nil {
				return err
			}

			rf := &config.RunFile{
				Method:      config.MethodBootstrap,
				Metric:      config.MetricConfig{Name: metric, Args: args},
				CILevel:     ciLevel,
				Iterations:  iterations,
				MinLower:    out.threshold(cmd),
				Truth:       dataset.ParseRef(truth, config.DefaultTruthColumn),
				Predictions: []dataset.Ref{dataset.ParseRef(pred, config.DefaultPredictionColumn)},
			}

			report, err := estimate(cmd.Context(), rf)
			if err != nil {
				return err
			}
			return emit(cmd, report, out.format, out.output)
		},
	}

	cmd.Flags().StringVar(&truth, "truth", "", "Ground truth file[:column] (default column \""+config.DefaultTruthColumn+"\")")
	cmd.Flags().StringVar(&pred, "pred", "", "Prediction file[:column] (default column \""+config.DefaultPredictionColumn+"\")")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(metrics.TypeAccuracy), "Metric to score")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", statistics.DefaultBootstrapIterations, "Number of bootstrap resamples")
	cmd.Flags().IntVar(&ciLevel, "ci-level", statistics.DefaultCILevel, "Confidence level in percent, in (0, 100]")
	cmd.Flags().StringArrayVar(&metricArgs, "arg", nil, "Metric argument key=value (can be repeated)")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("truth")
	_ = cmd.MarkFlagRequired("pred")

	return cmd
}
