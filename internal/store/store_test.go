package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"voiceapp/internal/store"
	"voiceapp/internal/testsupport"
)

func TestOpenCreatesDatabaseUnderDataDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if st.Path() != filepath.Join(cfg.Paths.DataDir, "voiceapp.db") {
		t.Fatalf("unexpected database path %q", st.Path())
	}
	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := st.Create(ctx, store.NewConversation{AudioPath: "/uploads/a.mp3"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if created.HasTranscript() || created.HasAnalysis() {
		t.Fatalf("expected new record without transcript or analysis: %#v", created)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %#v", created)
	}

	fetched, err := st.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.AudioPath != "/uploads/a.mp3" {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
}

func TestCreateRequiresAudioPath(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.Create(context.Background(), store.NewConversation{AudioPath: "  "}); err == nil {
		t.Fatal("expected error for empty audio path")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	conv, err := st.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if conv != nil {
		t.Fatalf("expected nil for missing record, got %#v", conv)
	}
}

func TestListNewestFirst(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, name := range []string{"1.mp3", "2.mp3", "3.mp3"} {
		if _, err := st.Create(ctx, store.NewConversation{AudioPath: name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	for i, want := range []int64{3, 2, 1} {
		if list[i].ID != want {
			t.Fatalf("position %d: got id %d want %d", i, list[i].ID, want)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	list, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	conv := testsupport.MustCreateConversation(t, st, "/uploads/x.wav")

	time.Sleep(2 * time.Millisecond)
	text := "hello world"
	ok, err := st.Update(ctx, conv.ID, store.Patch{TranscriptText: &text})
	if err != nil || !ok {
		t.Fatalf("Update transcript: ok=%v err=%v", ok, err)
	}
	analysis := `{"summary":"hi"}`
	if ok, err := st.Update(ctx, conv.ID, store.Patch{AnalysisJSON: &analysis}); err != nil || !ok {
		t.Fatalf("Update analysis: ok=%v err=%v", ok, err)
	}

	fetched, err := st.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.TranscriptText != text {
		t.Fatalf("transcript clobbered: %q", fetched.TranscriptText)
	}
	if fetched.AnalysisJSON != analysis {
		t.Fatalf("unexpected analysis %q", fetched.AnalysisJSON)
	}
	if fetched.AudioPath != "/uploads/x.wav" {
		t.Fatalf("audio path changed: %q", fetched.AudioPath)
	}
	if !fetched.UpdatedAt.After(conv.UpdatedAt) {
		t.Fatalf("expected updated_at to advance: before=%v after=%v", conv.UpdatedAt, fetched.UpdatedAt)
	}
	if !fetched.CreatedAt.Equal(conv.CreatedAt) {
		t.Fatalf("created_at changed: before=%v after=%v", conv.CreatedAt, fetched.CreatedAt)
	}
}

func TestUpdateOverwrites(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	conv := testsupport.MustCreateConversation(t, st, "a.mp3")

	testsupport.MustSetTranscript(t, st, conv.ID, "first")
	testsupport.MustSetTranscript(t, st, conv.ID, "second")

	fetched, _ := st.GetByID(ctx, conv.ID)
	if fetched.TranscriptText != "second" {
		t.Fatalf("expected overwrite, got %q", fetched.TranscriptText)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	text := "x"
	ok, err := st.Update(context.Background(), 42, store.Patch{TranscriptText: &text})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for missing record")
	}
	if ok, err := st.Update(context.Background(), 42, store.Patch{}); err != nil || ok {
		t.Fatalf("empty patch on missing record: ok=%v err=%v", ok, err)
	}
}

func TestDeleteDoesNotReuseIDs(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	first := testsupport.MustCreateConversation(t, st, "a.mp3")

	removed, err := st.Delete(ctx, first.ID)
	if err != nil || !removed {
		t.Fatalf("Delete: removed=%v err=%v", removed, err)
	}
	if removed, err := st.Delete(ctx, first.ID); err != nil || removed {
		t.Fatalf("second Delete: removed=%v err=%v", removed, err)
	}

	second := testsupport.MustCreateConversation(t, st, "b.mp3")
	if second.ID <= first.ID {
		t.Fatalf("expected id greater than %d, got %d", first.ID, second.ID)
	}
	count, err := st.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("Count: %d %v", count, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	path := st.Path()
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestReopenPreservesRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	conv, err := st.Create(context.Background(), store.NewConversation{AudioPath: "keep.mp3"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = st.Close()

	reopened := testsupport.MustOpenStore(t, cfg)
	fetched, err := reopened.GetByID(context.Background(), conv.ID)
	if err != nil || fetched == nil {
		t.Fatalf("expected record after reopen: %v %v", fetched, err)
	}
}
