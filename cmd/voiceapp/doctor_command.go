package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"voiceapp/internal/preflight"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var localOnly bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database and provider credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var results []preflight.Result
			if localOnly {
				results = preflight.RunLocal(cmd.Context(), cfg)
			} else {
				results = preflight.RunAll(cmd.Context(), cfg)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, result := range results {
				fmt.Fprintln(out, formatResult(result, colorize))
			}
			if failed := preflight.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&localOnly, "local", false, "Skip checks that contact the providers")
	return cmd
}

func formatResult(result preflight.Result, colorize bool) string {
	label, color := "PASS", ansiGreen
	if !result.Passed {
		label, color = "FAIL", ansiRed
	}
	if colorize {
		label = color + label + ansiReset
	}
	return fmt.Sprintf("[%s] %s: %s", label, result.Name, result.Detail)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
