package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confint",
		Short: "confint - confidence intervals for classification metrics",
		Long: `confint computes confidence intervals for a classification or regression
metric.

Use "bootstrap" to resample a single prediction set, or "seeds" to aggregate
one score per independent training run with a Student-t interval. Run files
(confint.yaml) describe either method declaratively.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newBootstrapCommand())
	cmd.AddCommand(newSeedsCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newMetricsCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
