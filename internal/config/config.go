package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	UploadDir string `toml:"upload_dir"`
	APIBind   string `toml:"api_bind"`
}

// LLM contains the chat-completion provider settings shared by analysis and chat.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	AnalysisModel  string `toml:"analysis_model"`
	ChatModel      string `toml:"chat_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Transcription contains the speech-to-text provider settings.
type Transcription struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for voiceapp.
//
// Configuration sections by subsystem:
//   - Paths: data directory (database, lock, logs), upload directory, API bind address
//   - LLM: chat-completion provider used by analysis and chat
//   - Transcription: speech-to-text provider
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	LLM           LLM           `toml:"llm"`
	Transcription Transcription `toml:"transcription"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("voiceapp.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and upload directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.UploadDir, c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "voiceapp.db")
}

// LockPath returns the lock file guarding a single running server per data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "voiceapp.lock")
}

// LogDir returns the directory holding server log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.DataDir, "logs")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the resolved chat-completion settings for one use.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AnalysisLLM returns the chat-completion settings used by the analysis orchestrator.
func (c *Config) AnalysisLLM() LLMConfig {
	return c.llmConfig(c.LLM.AnalysisModel)
}

// ChatLLM returns the chat-completion settings used by the chat orchestrator.
func (c *Config) ChatLLM() LLMConfig {
	return c.llmConfig(c.LLM.ChatModel)
}

func (c *Config) llmConfig(model string) LLMConfig {
	return LLMConfig{
		APIKey:  strings.TrimSpace(c.LLM.APIKey),
		BaseURL: strings.TrimSpace(c.LLM.BaseURL),
		Model:   strings.TrimSpace(model),
		Timeout: seconds(c.LLM.TimeoutSeconds),
	}
}

// TranscriptionConfig contains the resolved speech-to-text settings.
type TranscriptionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GetTranscription returns the speech-to-text settings, falling back to the
// [llm] API key when the transcription section does not set one.
func (c *Config) GetTranscription() TranscriptionConfig {
	key := strings.TrimSpace(c.Transcription.APIKey)
	if key == "" {
		key = strings.TrimSpace(c.LLM.APIKey)
	}
	return TranscriptionConfig{
		APIKey:  key,
		BaseURL: strings.TrimSpace(c.Transcription.BaseURL),
		Model:   strings.TrimSpace(c.Transcription.Model),
		Timeout: seconds(c.Transcription.TimeoutSeconds),
	}
}

func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}
