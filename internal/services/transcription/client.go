package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"voiceapp/internal/services"
)

const (
	defaultTimeout = 10 * time.Minute
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "whisper-large-v3-turbo"
)

// Config captures the runtime settings required to talk to the speech-to-text provider.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client wraps the provider's audio transcription endpoint.
type Client struct {
	api    *openai.Client
	apiKey string
	model  string
}

// Option customizes the client.
type Option func(*openai.ClientConfig)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *openai.ClientConfig) {
		if client != nil {
			cfg.HTTPClient = client
		}
	}
}

// NewClient constructs a transcription client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	for _, opt := range opts {
		opt(&clientCfg)
	}
	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		apiKey: apiKey,
		model:  model,
	}
}

// Model reports the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// Transcribe uploads the audio file at path and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	if c.apiKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "transcription", "create", "api key required", nil)
	}
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternal, "transcription", "create", describe(err), err)
	}
	return resp.Text, nil
}

func describe(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("provider returned http %d", apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("provider returned http %d", reqErr.HTTPStatusCode)
	}
	return ""
}
