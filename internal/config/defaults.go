package config

const (
	defaultConfigPath               = "~/.config/voiceapp/config.toml"
	defaultDataDir                  = "~/.local/share/voiceapp"
	defaultAPIBind                  = "127.0.0.1:3000"
	defaultLLMBaseURL               = "https://api.groq.com/openai/v1/chat/completions"
	defaultAnalysisModel            = "llama3-70b-8192"
	defaultChatModel                = "llama3-70b-8192"
	defaultLLMTimeoutSeconds        = 120
	defaultTranscriptionBaseURL     = "https://api.groq.com/openai/v1"
	defaultTranscriptionModel       = "whisper-large-v3-turbo"
	defaultTranscriptionTimeoutSecs = 600
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"

	apiKeyEnv              = "GROQ_API_KEY"
	transcriptionAPIKeyEnv = "VOICEAPP_TRANSCRIPTION_API_KEY"
	dataDirEnv             = "VOICEAPP_DATA_DIR"
)

// Default returns a Config populated with repository defaults. The upload
// directory is left empty so normalization derives it from the data directory.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			AnalysisModel:  defaultAnalysisModel,
			ChatModel:      defaultChatModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Transcription: Transcription{
			BaseURL:        defaultTranscriptionBaseURL,
			Model:          defaultTranscriptionModel,
			TimeoutSeconds: defaultTranscriptionTimeoutSecs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
