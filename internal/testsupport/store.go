package testsupport

import (
	"context"
	"testing"

	"voiceapp/internal/config"
	"voiceapp/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// MustCreateConversation inserts a record pointing at audioPath.
func MustCreateConversation(t testing.TB, st *store.Store, audioPath string) *store.Conversation {
	t.Helper()

	conv, err := st.Create(context.Background(), store.NewConversation{AudioPath: audioPath})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return conv
}

// MustSetTranscript stores transcript text on an existing record.
func MustSetTranscript(t testing.TB, st *store.Store, id int64, text string) {
	t.Helper()

	ok, err := st.Update(context.Background(), id, store.Patch{TranscriptText: &text})
	if err != nil {
		t.Fatalf("Update transcript: %v", err)
	}
	if !ok {
		t.Fatalf("Update transcript: record %d not found", id)
	}
}
