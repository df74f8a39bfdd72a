package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"voiceapp/internal/api"
	"voiceapp/internal/config"
	"voiceapp/internal/conversation"
	"voiceapp/internal/store"
	"voiceapp/internal/web"
)

func newConversationCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newShowCommand(ctx),
		newUploadCommand(ctx),
		newTranscribeCommand(ctx),
		newAnalyzeCommand(ctx),
		newChatCommand(ctx),
		newRemoveCommand(ctx),
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				convs, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.FromConversations(convs))
				}
				out := cmd.OutOrStdout()
				if len(convs) == 0 {
					fmt.Fprintln(out, "No conversations found.")
					return nil
				}
				fmt.Fprintln(out, renderConversationTable(convs))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func renderConversationTable(convs []*store.Conversation) string {
	columns := []column{
		{Header: "ID", AlignR: true},
		{Header: "Uploaded"},
		{Header: "Audio", MaxWidth: 48},
		{Header: "Size", AlignR: true},
		{Header: "Transcript"},
		{Header: "Analysis"},
	}
	rows := make([][]string, 0, len(convs))
	for _, conv := range convs {
		rows = append(rows, []string{
			strconv.FormatInt(conv.ID, 10),
			humanize.Time(conv.CreatedAt),
			filepath.Base(conv.AudioPath),
			audioSize(conv.AudioPath),
			yesNo(conv.HasTranscript()),
			yesNo(conv.HasAnalysis()),
		})
	}
	return renderTable(columns, rows)
}

func audioSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a conversation with its transcript and analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				conv, err := svc.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.FromConversation(conv))
				}
				printConversation(cmd.OutOrStdout(), conv)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printConversation(out io.Writer, conv *store.Conversation) {
	fmt.Fprintf(out, "Conversation %d\n", conv.ID)
	fmt.Fprintf(out, "Audio:    %s (%s)\n", conv.AudioPath, audioSize(conv.AudioPath))
	fmt.Fprintf(out, "Uploaded: %s (%s)\n", conv.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(conv.CreatedAt))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Transcript:")
	if conv.HasTranscript() {
		fmt.Fprintln(out, conv.TranscriptText)
	} else {
		fmt.Fprintln(out, "No transcript available.")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "AI Insights:")
	printAnalysis(out, conv.AnalysisJSON)
}

func printAnalysis(out io.Writer, raw string) {
	view, err := web.BuildAnalysisView(raw)
	switch {
	case err != nil:
		fmt.Fprintf(out, "Stored analysis is not valid: %v\n", err)
	case view == nil:
		fmt.Fprintln(out, "No analysis available.")
	default:
		if view.Summary != "" {
			fmt.Fprintf(out, "Summary: %s\n", view.Summary)
		}
		if len(view.Sentiment) > 0 {
			fmt.Fprintln(out, "Sentiment by Section:")
			for _, item := range view.Sentiment {
				fmt.Fprintf(out, "  %s: %s\n", item.Label, item.Value)
			}
		}
		if len(view.Entities) > 0 {
			fmt.Fprintln(out, "Entities:")
			for _, entity := range view.Entities {
				fmt.Fprintf(out, "  %s: %s\n", entity.Type, entity.Text)
			}
		}
		fmt.Fprintln(out, view.Pretty)
	}
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Store an audio file as a new conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve audio path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open audio file: %w", err)
			}
			defer file.Close()

			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				conv, err := svc.Upload(cmd.Context(), filepath.Base(path), file)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.UploadResponse{ID: conv.ID, AudioURL: conv.AudioPath})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded conversation %d (%s)\n", conv.ID, conv.AudioPath)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "transcribe <id>",
		Short: "Transcribe a conversation's audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				res, err := svc.Transcribe(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.FromTranscribeResult(res))
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.TranscriptText)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Generate AI insights for a transcribed conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				res, err := svc.Analyze(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.FromAnalyzeResult(res))
				}
				printAnalysis(cmd.OutOrStdout(), res.Analysis.String())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newChatCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var conversationID int64
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant a question, optionally about one conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if conversationID < 0 {
				return errors.New("--id must not be negative")
			}
			message := strings.Join(args, " ")
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				reply, err := svc.Chat(cmd.Context(), message, conversationID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.ChatResponse{Response: reply})
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&conversationID, "id", 0, "Conversation whose transcript is used as context")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var keepAudio bool
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation and its audio file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *conversation.Service, _ *slog.Logger) error {
				if err := svc.Remove(cmd.Context(), id, !keepAudio); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed conversation %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "Leave the uploaded audio file on disk")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid conversation id %q", arg)
	}
	return id, nil
}
