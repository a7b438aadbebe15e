package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/config"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <confint.yaml>...",
		Short: "Check run files without loading any data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if _, err := config.Load(path); err != nil {
					failed++
					fmt.Fprintf(out, "✗ %s\n  %v\n", path, err) //nolint:errcheck
					continue
				}
				fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d run files are invalid", failed, len(args))
			}
			return nil
		},
	}
}
