package api

import (
	"encoding/json"

	"voiceapp/internal/conversation"
	"voiceapp/internal/store"
)

// FromConversation converts a store record to its API representation.
func FromConversation(conv *store.Conversation) Conversation {
	if conv == nil {
		return Conversation{}
	}
	dto := Conversation{
		ID:       conv.ID,
		AudioURL: conv.AudioPath,
	}
	if conv.TranscriptText != "" {
		text := conv.TranscriptText
		dto.TranscriptText = &text
	}
	if conv.AnalysisJSON != "" && json.Valid([]byte(conv.AnalysisJSON)) {
		dto.AnalysisJSON = json.RawMessage(conv.AnalysisJSON)
	}
	if !conv.CreatedAt.IsZero() {
		dto.CreatedAt = conv.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !conv.UpdatedAt.IsZero() {
		dto.UpdatedAt = conv.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromConversations converts a slice of records, preserving order. The result
// is never nil so it encodes as [].
func FromConversations(convs []*store.Conversation) []Conversation {
	out := make([]Conversation, 0, len(convs))
	for _, conv := range convs {
		if conv == nil {
			continue
		}
		out = append(out, FromConversation(conv))
	}
	return out
}

// FromTranscribeResult converts a transcription result.
func FromTranscribeResult(res *conversation.TranscribeResult) TranscribeResponse {
	if res == nil {
		return TranscribeResponse{}
	}
	return TranscribeResponse{ID: res.ID, TranscriptText: res.TranscriptText}
}

// FromAnalyzeResult converts an analysis result.
func FromAnalyzeResult(res *conversation.AnalyzeResult) AnalyzeResponse {
	if res == nil {
		return AnalyzeResponse{}
	}
	return AnalyzeResponse{ID: res.ID, Analysis: json.RawMessage(res.Analysis.String())}
}

// FromError converts a soft failure to an error body.
func FromError(err *conversation.Error) ErrorResponse {
	if err == nil {
		return ErrorResponse{}
	}
	return ErrorResponse{Error: err.Message, Details: err.Details()}
}
