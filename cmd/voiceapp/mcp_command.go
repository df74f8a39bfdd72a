package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"voiceapp/internal/conversation"
	"voiceapp/internal/mcpserver"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve conversation tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServiceLogging(os.Stderr, func(svc *conversation.Service, logger *slog.Logger) error {
				server := mcpserver.New(svc, logger, version)
				return server.ServeStdio(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}
