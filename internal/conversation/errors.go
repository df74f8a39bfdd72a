package conversation

import (
	"voiceapp/internal/services"
)

// User-facing failure messages.
const (
	MsgNotFound            = "Conversation not found"
	MsgAudioMissing        = "Audio file not found on server."
	MsgTranscriptionFailed = "Transcription failed"
	MsgNoTranscript        = "No transcript available for analysis"
	MsgAnalysisFailed      = "Analysis failed"
	MsgMessageRequired     = "Message is required."
	MsgChatFailed          = "Chat failed"
)

// Error is a soft failure reported to callers as {error, details}.
type Error struct {
	// Kind is one of services.ErrNotFound, ErrPrecondition, ErrValidation or ErrExternal.
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind marker and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// ErrorKind returns the stable classification of the failure.
func (e *Error) ErrorKind() string {
	return services.Kind(e.Kind)
}

// Details returns the underlying cause message, or "" when there is none.
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func notFound(message string) *Error {
	return &Error{Kind: services.ErrNotFound, Message: message}
}

func precondition(message string) *Error {
	return &Error{Kind: services.ErrPrecondition, Message: message}
}

func invalid(message string) *Error {
	return &Error{Kind: services.ErrValidation, Message: message}
}

func external(message string, err error) *Error {
	return &Error{Kind: services.ErrExternal, Message: message, Err: err}
}
