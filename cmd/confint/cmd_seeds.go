package main

import (
	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/config"
	"github.com/g8a9/confint/internal/dataset"
	"github.com/g8a9/confint/internal/metrics"
	"github.com/g8a9/confint/internal/statistics"
)

func newSeedsCommand() *cobra.Command {
	var (
		truth      string
		preds      []string
		metric     string
		ciLevel    int
		metricArgs []string
		out        outputFlags
	)

	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Aggregate scores from independent runs with a t interval",
		Long: `Score each prediction set (one per training seed) against the same ground
truth, then report the mean score and a Student-t interval with k-1 degrees
of freedom. At least two runs are required.`,
		Example: `  confint seeds --truth test.csv --pred seed1.csv --pred seed2.csv --pred seed3.csv
  confint seeds --truth test.csv:gold --pred s1.csv:y --pred s2.csv:y --metric recall --ci-level 90`,
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
				Method:   config.MethodSeeds,
				Metric:   config.MetricConfig{Name: metric, Args: args},
				CILevel:  ciLevel,
				MinLower: out.threshold(cmd),
				Truth:    dataset.ParseRef(truth, config.DefaultTruthColumn),
			}
			for _, p := range preds {
				rf.Predictions = append(rf.Predictions, dataset.ParseRef(p, config.DefaultPredictionColumn))
			}

			report, err := estimate(cmd.Context(), rf)
			if err != nil {
				return err
			}
			return emit(cmd, report, out.format, out.output)
		},
	}

	cmd.Flags().StringVar(&truth, "truth", "", "Ground truth file[:column] (default column \""+config.DefaultTruthColumn+"\")")
	cmd.Flags().StringArrayVar(&preds, "pred", nil, "Prediction file[:column] for one run (repeat once per run)")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(metrics.TypeAccuracy), "Metric to score")
	cmd.Flags().IntVar(&ciLevel, "ci-level", statistics.DefaultCILevel, "Confidence level in percent, in (0, 100]")
	cmd.Flags().StringArrayVar(&metricArgs, "arg", nil, "Metric argument key=value (can be repeated)")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("truth")

	return cmd
}
