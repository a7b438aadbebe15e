package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/g8a9/confint/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		force bool
		name  string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a run file with a guided wizard",
		Long: `Run an interactive wizard that asks for the method, metric, confidence level
and data files, then writes a confint.yaml run file.

If no path is given, confint.yaml in the current directory is used. A
directory path gets confint.yaml appended. Data paths are answered relative
to the current directory and rewritten relative to the run file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "confint.yaml"
			if len(args) > 0 {
				path = args[0]
				if filepath.Ext(path) == "" {
					path = filepath.Join(path, "confint.yaml")
				}
			}
			if fileExists(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			rf, err := wizard.RunFileWizard(cmd.InOrStdin(), cmd.OutOrStdout(), wizard.Answers{Name: name})
			if err != nil {
				return err
			}
			if err := rf.Rebase(".", filepath.Dir(path)); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := rf.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Run file written to %s\n", path) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing run file")
	cmd.Flags().StringVar(&name, "name", "", "Pre-fill the run name")

	return cmd
}

// fileExists reports whether path names an existing file or directory.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
