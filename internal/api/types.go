package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Conversation describes a conversation record in a transport-friendly format.
type Conversation struct {
	ID             int64           `json:"id"`
	AudioURL       string          `json:"audioUrl"`
	TranscriptText *string         `json:"transcriptText"`
	AnalysisJSON   json.RawMessage `json:"analysisJson"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
}

// UploadResponse is returned after an audio upload.
type UploadResponse struct {
	ID       int64  `json:"id"`
	AudioURL string `json:"audioUrl"`
}

// TranscribeResponse is returned after a successful transcription.
type TranscribeResponse struct {
	ID             int64  `json:"id"`
	TranscriptText string `json:"transcriptText"`
}

// AnalyzeResponse is returned after a successful analysis.
type AnalyzeResponse struct {
	ID       int64           `json:"id"`
	Analysis json.RawMessage `json:"analysis"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ConversationRequest is the body of the transcribe and analyze endpoints.
type ConversationRequest struct {
	ConversationID ConversationID `json:"conversationId"`
}

// ChatRequest is the body of the chat endpoint. Message is kept raw so the
// handler can tell a missing or non-string message from an empty one.
type ChatRequest struct {
	Message        json.RawMessage `json:"message"`
	ConversationID ConversationID  `json:"conversationId"`
}

// MessageText returns the message when it is a JSON string.
func (r ChatRequest) MessageText() (string, bool) {
	if len(r.Message) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(r.Message, &text); err != nil {
		return "", false
	}
	return text, true
}

// ConversationID accepts a JSON number, a numeric string, or null (zero).
type ConversationID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ConversationID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*id = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("conversationId must be an integer, got %s", string(data))
	}
	*id = ConversationID(value)
	return nil
}
