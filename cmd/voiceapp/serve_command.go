package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voiceapp/internal/serverrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return serverrun.Run(cmd.Context(), cfg, serverrun.Options{
				LogLevel:     logLevel,
				Development:  development,
				LogRetention: time.Duration(retentionDays) * 24 * time.Hour,
				Ready: func(addr string) {
					fmt.Fprintf(out, "voiceapp listening on http://%s\n", addr)
				},
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in log output")
	cmd.Flags().IntVar(&retentionDays, "log-retention-days", 0, "Days to keep session logs (0 uses the default, negative keeps all)")
	return cmd
}
