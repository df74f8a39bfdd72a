package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"voiceapp/internal/api"
	"voiceapp/internal/conversation"
	"voiceapp/internal/logging"
	"voiceapp/internal/store"
)

// Service is the conversation surface exposed as tools.
type Service interface {
	List(ctx context.Context) ([]*store.Conversation, error)
	Get(ctx context.Context, id int64) (*store.Conversation, error)
	Transcribe(ctx context.Context, id int64) (*conversation.TranscribeResult, error)
	Analyze(ctx context.Context, id int64) (*conversation.AnalyzeResult, error)
	Chat(ctx context.Context, message string, conversationID int64) (string, error)
}

// Server owns the MCP tool registry.
type Server struct {
	svc    Service
	logger *slog.Logger
	mcp    *server.MCPServer
}

// New registers the conversation tools.
func New(svc Service, logger *slog.Logger, version string) *Server {
	s := &Server{
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "mcp"),
		mcp:    server.NewMCPServer("voiceapp", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("list_conversations",
		mcp.WithDescription("List uploaded conversations, newest first, with transcript and analysis when present."),
	), s.handleList)

	s.mcp.AddTool(mcp.NewTool("get_conversation",
		mcp.WithDescription("Fetch one conversation by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleGet)

	s.mcp.AddTool(mcp.NewTool("transcribe_conversation",
		mcp.WithDescription("Transcribe the conversation's audio with the speech-to-text provider and store the text."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleTranscribe)

	s.mcp.AddTool(mcp.NewTool("analyze_conversation",
		mcp.WithDescription("Produce and store the AI analysis (speaker roles, talk ratio, questions, objections, sentiment, summary, entities) of a transcribed conversation."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleAnalyze)

	s.mcp.AddTool(mcp.NewTool("chat",
		mcp.WithDescription("Ask the assistant a question, optionally with a conversation transcript as context."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Question to ask")),
		mcp.WithNumber("conversation_id", mcp.Description("Conversation whose transcript is added as context")),
	), s.handleChat)

	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tools over the given streams until ctx ends or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	s.logger.Info("mcp server listening on stdio", logging.String(logging.FieldEventType, "mcp_started"))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	convs, err := s.svc.List(ctx)
	if err != nil {
		return s.failure("list_conversations", err), nil
	}
	return jsonResult(api.FromConversations(convs))
}

func (s *Server) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req, "id")
	if errResult != nil {
		return errResult, nil
	}
	conv, err := s.svc.Get(ctx, id)
	if err != nil {
		return s.failure("get_conversation", err), nil
	}
	return jsonResult(api.FromConversation(conv))
}

func (s *Server) handleTranscribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req, "id")
	if errResult != nil {
		return errResult, nil
	}
	res, err := s.svc.Transcribe(ctx, id)
	if err != nil {
		return s.failure("transcribe_conversation", err), nil
	}
	return jsonResult(api.FromTranscribeResult(res))
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req, "id")
	if errResult != nil {
		return errResult, nil
	}
	res, err := s.svc.Analyze(ctx, id)
	if err != nil {
		return s.failure("analyze_conversation", err), nil
	}
	return jsonResult(api.FromAnalyzeResult(res))
}

func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(conversation.MsgMessageRequired), nil
	}
	id := int64(req.GetFloat("conversation_id", 0))
	reply, err := s.svc.Chat(ctx, message, id)
	if err != nil {
		return s.failure("chat", err), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func requireID(req mcp.CallToolRequest, name string) (int64, *mcp.CallToolResult) {
	value, err := req.RequireFloat(name)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	if value < 1 || value != float64(int64(value)) {
		return 0, mcp.NewToolResultError(name + " must be a positive integer")
	}
	return int64(value), nil
}

// failure converts a service error into a tool error result. Soft failures
// carry the same message and details the HTTP API returns.
func (s *Server) failure(tool string, err error) *mcp.CallToolResult {
	if convErr, ok := conversation.AsError(err); ok {
		payload, _ := json.Marshal(api.FromError(convErr))
		return mcp.NewToolResultError(string(payload))
	}
	logging.ErrorWithContext(s.logger, "mcp tool failed", "mcp_tool_failed",
		logging.String("tool", tool),
		logging.Error(err),
	)
	return mcp.NewToolResultErrorFromErr(tool+" failed", err)
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
