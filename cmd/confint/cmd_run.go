package main

import (
	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/config"
)

func newRunCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "run <confint.yaml>",
		Short: "Compute the interval described by a run file",
		Long: `Load a confint.yaml run file, check it against the run file schema and
compute the interval it describes. Relative data paths resolve against the
run file's directory. --min-lower overrides min_lower from the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			rf, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if v := out.threshold(cmd); v != nil {
				rf.MinLower = v
			}

			report, err := estimate(cmd.Context(), rf)
			if err != nil {
				return err
			}
			return emit(cmd, report, out.format, out.output)
		},
	}

	out.register(cmd)
	return cmd
}
