package testsupport

import (
	"context"
	"sync"

	"voiceapp/internal/services/llm"
)

// FakeTranscriber records transcription calls and returns canned output.
type FakeTranscriber struct {
	mu    sync.Mutex
	Text  string
	Err   error
	Paths []string
}

// Transcribe returns the configured text or error.
func (f *FakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Paths = append(f.Paths, path)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

// Calls reports how many times Transcribe ran.
func (f *FakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Paths)
}

// FakeCompleter records chat-completion calls and returns canned output.
type FakeCompleter struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	Requests [][]llm.Message
}

// Complete returns the configured reply or error.
func (f *FakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, append([]llm.Message(nil), messages...))
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// Calls reports how many times Complete ran.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// Last returns the most recent request messages, or nil when none were sent.
func (f *FakeCompleter) Last() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return nil
	}
	return f.Requests[len(f.Requests)-1]
}
