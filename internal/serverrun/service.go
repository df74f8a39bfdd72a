package serverrun

import (
	"log/slog"

	"voiceapp/internal/config"
	"voiceapp/internal/conversation"
	"voiceapp/internal/services/llm"
	"voiceapp/internal/services/transcription"
	"voiceapp/internal/store"
	"voiceapp/internal/uploads"
)

// BuildService constructs the conversation service with provider clients
// derived from cfg. The CLI and MCP server share it with the HTTP server.
func BuildService(cfg *config.Config, st *store.Store, logger *slog.Logger) *conversation.Service {
	tr := cfg.GetTranscription()
	analysisCfg := cfg.AnalysisLLM()
	chatCfg := cfg.ChatLLM()

	return conversation.NewService(conversation.Deps{
		Store: st,
		Files: uploads.NewDir(cfg.Paths.UploadDir),
		Transcriber: transcription.NewClient(transcription.Config{
			APIKey:  tr.APIKey,
			BaseURL: tr.BaseURL,
			Model:   tr.Model,
			Timeout: tr.Timeout,
		}),
		Analyzer: llm.NewClient(llm.Config{
			APIKey:  analysisCfg.APIKey,
			BaseURL: analysisCfg.BaseURL,
			Model:   analysisCfg.Model,
			Timeout: analysisCfg.Timeout,
		}),
		Chat: llm.NewClient(llm.Config{
			APIKey:  chatCfg.APIKey,
			BaseURL: chatCfg.BaseURL,
			Model:   chatCfg.Model,
			Timeout: chatCfg.Timeout,
		}),
		Logger: logger,
	})
}
