package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"voiceapp/internal/analysis"
	"voiceapp/internal/logging"
	"voiceapp/internal/services"
	"voiceapp/internal/services/llm"
	"voiceapp/internal/store"
)

// ChatSystemPrompt opens every chat request.
const ChatSystemPrompt = "You are a helpful AI assistant for a voice intelligence app."

const transcriptContextPrefix = "\n\nHere is the transcript of the uploaded audio for context:\n\"\"\""

// Repository persists conversation records.
type Repository interface {
	Create(ctx context.Context, input store.NewConversation) (*store.Conversation, error)
	List(ctx context.Context) ([]*store.Conversation, error)
	GetByID(ctx context.Context, id int64) (*store.Conversation, error)
	Update(ctx context.Context, id int64, patch store.Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// FileStore writes and removes uploaded audio files.
type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(path string) error
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Completer returns a chat-completion reply for the given messages.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Deps bundles the collaborators a Service needs.
type Deps struct {
	Store       Repository
	Files       FileStore
	Transcriber Transcriber
	// Analyzer and Chat may be the same client configured with different models.
	Analyzer Completer
	Chat     Completer
	Logger   *slog.Logger
}

// Service performs conversation operations.
type Service struct {
	store       Repository
	files       FileStore
	transcriber Transcriber
	analyzer    Completer
	chat        Completer
	logger      *slog.Logger
}

// NewService constructs a Service. Store and Files are required; provider
// clients may be nil, in which case the matching operations report an
// external failure.
func NewService(deps Deps) *Service {
	return &Service{
		store:       deps.Store,
		files:       deps.Files,
		transcriber: deps.Transcriber,
		analyzer:    deps.Analyzer,
		chat:        deps.Chat,
		logger:      logging.NewComponentLogger(deps.Logger, "conversation"),
	}
}

// TranscribeResult is returned by a successful transcription.
type TranscribeResult struct {
	ID             int64
	TranscriptText string
}

// AnalyzeResult is returned by a successful analysis.
type AnalyzeResult struct {
	ID       int64
	Analysis analysis.Result
}

var errProviderUnavailable = services.Wrap(services.ErrConfiguration, "conversation", "", "provider client not configured", nil)

// Upload saves the audio stream and creates a record pointing at it. When the
// record cannot be created the saved file is removed again.
func (s *Service) Upload(ctx context.Context, originalName string, r io.Reader) (*store.Conversation, error) {
	ctx = services.WithOperation(ctx, "upload")
	logger := logging.WithContext(ctx, s.logger)

	path, err := s.files.Save(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}
	conv, err := s.store.Create(ctx, store.NewConversation{AudioPath: path})
	if err != nil {
		if rmErr := s.files.Remove(path); rmErr != nil {
			logging.WarnWithContext(logger, "upload cleanup failed", "upload_cleanup_failed",
				logging.String("path", path),
				logging.Error(rmErr),
				logging.String(logging.FieldImpact, "orphaned audio file remains in upload directory"),
			)
		}
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	logger.Info("audio uploaded",
		logging.Int64(logging.FieldConversationID, conv.ID),
		logging.String("original_name", originalName),
		logging.String("path", path),
		logging.String(logging.FieldEventType, "conversation_uploaded"),
	)
	return conv, nil
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) ([]*store.Conversation, error) {
	return s.store.List(ctx)
}

// Get returns one record or a not-found *Error.
func (s *Service) Get(ctx context.Context, id int64) (*store.Conversation, error) {
	conv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, notFound(MsgNotFound)
	}
	return conv, nil
}

// Transcribe sends the record's audio to the speech-to-text provider and
// stores the returned text, replacing any previous transcript.
func (s *Service) Transcribe(ctx context.Context, id int64) (*TranscribeResult, error) {
	ctx = services.WithOperation(services.WithConversationID(ctx, id), "transcribe")
	logger := logging.WithContext(ctx, s.logger)

	conv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(conv.AudioPath); err != nil {
		logger.Warn("audio file missing",
			logging.String("path", conv.AudioPath),
			logging.String(logging.FieldEventType, "audio_missing"),
			logging.String(logging.FieldErrorHint, "the upload directory may have been moved or cleaned"),
			logging.String(logging.FieldImpact, "conversation cannot be transcribed"),
		)
		return nil, notFound(MsgAudioMissing)
	}
	if s.transcriber == nil {
		return nil, external(MsgTranscriptionFailed, errProviderUnavailable)
	}

	text, err := s.transcriber.Transcribe(ctx, conv.AudioPath)
	if err != nil {
		logging.ErrorWithContext(logger, "transcription failed", "transcription_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check transcription api_key, base_url and model"),
		)
		return nil, external(MsgTranscriptionFailed, err)
	}

	if err := s.save(ctx, id, store.Patch{TranscriptText: &text}); err != nil {
		return nil, err
	}
	logger.Info("transcript stored",
		logging.Int("chars", len(text)),
		logging.String(logging.FieldEventType, "transcript_stored"),
	)
	return &TranscribeResult{ID: id, TranscriptText: text}, nil
}

// Analyze asks the model for the seven-key analysis of the stored transcript
// and stores the parsed object, replacing any previous analysis.
func (s *Service) Analyze(ctx context.Context, id int64) (*AnalyzeResult, error) {
	ctx = services.WithOperation(services.WithConversationID(ctx, id), "analyze")
	logger := logging.WithContext(ctx, s.logger)

	conv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasTranscript() {
		return nil, precondition(MsgNoTranscript)
	}
	if s.analyzer == nil {
		return nil, external(MsgAnalysisFailed, errProviderUnavailable)
	}

	reply, err := s.analyzer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: analysis.SystemPrompt},
		{Role: llm.RoleUser, Content: analysis.BuildPrompt(conv.TranscriptText)},
	})
	if err != nil {
		logging.ErrorWithContext(logger, "analysis failed", "analysis_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm api_key, base_url and analysis_model"),
		)
		return nil, external(MsgAnalysisFailed, err)
	}

	result := analysis.Parse(reply)
	if result.Fallback {
		logging.WarnWithContext(logger, "analysis reply was not a JSON object; storing as summary", "analysis_fallback",
			logging.Int("reply_chars", len(reply)),
			logging.String(logging.FieldErrorHint, "the model ignored the JSON-only instruction"),
			logging.String(logging.FieldImpact, "only the summary field is available"),
		)
	}
	stored := result.String()
	if err := s.save(ctx, id, store.Patch{AnalysisJSON: &stored}); err != nil {
		return nil, err
	}
	logger.Info("analysis stored",
		logging.Bool("fallback", result.Fallback),
		logging.String(logging.FieldEventType, "analysis_stored"),
	)
	return &AnalyzeResult{ID: id, Analysis: result}, nil
}

// Chat answers message, adding the transcript of conversationID to the system
// prompt when that record exists and has one. A conversationID of zero means
// no context.
func (s *Service) Chat(ctx context.Context, message string, conversationID int64) (string, error) {
	ctx = services.WithOperation(ctx, "chat")
	if message == "" {
		return "", invalid(MsgMessageRequired)
	}

	systemPrompt := ChatSystemPrompt
	if conversationID > 0 {
		ctx = services.WithConversationID(ctx, conversationID)
		conv, err := s.store.GetByID(ctx, conversationID)
		if err != nil {
			return "", err
		}
		if conv.HasTranscript() {
			systemPrompt += transcriptContextPrefix + conv.TranscriptText + "\"\"\""
		}
	}
	logger := logging.WithContext(ctx, s.logger)
	if s.chat == nil {
		return "", external(MsgChatFailed, errProviderUnavailable)
	}

	reply, err := s.chat.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: message},
	})
	if err != nil {
		logging.ErrorWithContext(logger, "chat failed", "chat_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm api_key, base_url and chat_model"),
		)
		return "", external(MsgChatFailed, err)
	}
	logger.Debug("chat answered", logging.Int("reply_chars", len(reply)))
	return reply, nil
}

// Remove deletes a record and, when removeAudio is set, its audio file.
func (s *Service) Remove(ctx context.Context, id int64, removeAudio bool) error {
	ctx = services.WithOperation(services.WithConversationID(ctx, id), "remove")
	conv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return notFound(MsgNotFound)
	}
	if removeAudio {
		if err := s.files.Remove(conv.AudioPath); err != nil {
			return err
		}
	}
	logging.WithContext(ctx, s.logger).Info("conversation removed",
		logging.Bool("audio_removed", removeAudio),
		logging.String(logging.FieldEventType, "conversation_removed"),
	)
	return nil
}

// save applies patch and reports a record deleted mid-operation as not found.
func (s *Service) save(ctx context.Context, id int64, patch store.Patch) error {
	ok, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(MsgNotFound)
	}
	return nil
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr, true
	}
	return nil, false
}
