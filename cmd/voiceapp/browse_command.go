package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"voiceapp/internal/conversation"
	"voiceapp/internal/tui"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, transcribe and analyze conversations in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log output would tear the alternate screen.
			return ctx.withServiceLogging(io.Discard, func(svc *conversation.Service, _ *slog.Logger) error {
				return tui.Run(cmd.Context(), svc)
			})
		},
	}
}
