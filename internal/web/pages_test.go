package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"voiceapp/internal/conversation"
	"voiceapp/internal/logging"
	"voiceapp/internal/services"
	"voiceapp/internal/store"
)

type stubSource struct {
	convs []*store.Conversation
	err   error
}

func (s *stubSource) List(context.Context) ([]*store.Conversation, error) {
	return s.convs, s.err
}

func (s *stubSource) Get(_ context.Context, id int64) (*store.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, conv := range s.convs {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, &conversation.Error{Kind: services.ErrNotFound, Message: conversation.MsgNotFound}
}

func newTestRouter(t *testing.T, src Source) *mux.Router {
	t.Helper()
	pages, err := New(src, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pages.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	router := mux.NewRouter()
	pages.Register(router)
	return router
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHomeAndUploadPages(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	home := get(t, router, "/")
	if home.Code != http.StatusOK || !strings.Contains(home.Body.String(), "Voice Intelligence App") {
		t.Fatalf("unexpected home page %d", home.Code)
	}
	if !strings.Contains(home.Body.String(), "Ask me anything about the app, uploading, or AI insights!") {
		t.Fatal("expected chat widget on home page")
	}
	if !strings.Contains(home.Body.String(), "2024 Voice Intelligence App") {
		t.Fatal("expected footer year")
	}

	upload := get(t, router, "/upload")
	if upload.Code != http.StatusOK || !strings.Contains(upload.Body.String(), "Drag &amp; drop audio file here") {
		t.Fatalf("unexpected upload page %d", upload.Code)
	}
	if strings.Contains(upload.Body.String(), "chat-widget") {
		t.Fatal("chat widget should only render on the home page")
	}
}

func TestDashboardListsRecords(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	src := &stubSource{convs: []*store.Conversation{
		{ID: 2, AudioPath: "/b", TranscriptText: "t", CreatedAt: created},
		{ID: 1, AudioPath: "/a", CreatedAt: created.Add(-time.Hour)},
	}}
	rr := get(t, newTestRouter(t, src), "/dashboard")
	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.Index(body, `href="/transcript/2"`) > strings.Index(body, `href="/transcript/1"`) {
		t.Fatal("expected newest record first")
	}
	if !strings.Contains(body, "2 hours ago") || !strings.Contains(body, "transcribed") {
		t.Fatalf("expected relative time and status in dashboard: %s", body)
	}
}

func TestDashboardEmpty(t *testing.T) {
	rr := get(t, newTestRouter(t, &stubSource{}), "/dashboard")
	if !strings.Contains(rr.Body.String(), "No conversations found.") {
		t.Fatalf("expected empty message, got %s", rr.Body.String())
	}
}

func TestDashboardStoreError(t *testing.T) {
	rr := get(t, newTestRouter(t, &stubSource{err: errors.New("disk gone")}), "/dashboard")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestTranscriptPage(t *testing.T) {
	src := &stubSource{convs: []*store.Conversation{{
		ID:             5,
		AudioPath:      "/missing.mp3",
		TranscriptText: "Agent: <hello>",
		AnalysisJSON:   `{"summary":"Greeting","sentiment":{"opening":"POSITIVE"},"entities":[]}`,
		CreatedAt:      time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
	}}}
	rr := get(t, newTestRouter(t, src), "/transcript/5")
	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	for _, want := range []string{
		"Transcript for Conversation #5",
		"Agent: &lt;hello&gt;",
		"Greeting",
		`<span class="sentiment positive">POSITIVE</span>`,
		"Ask the AI anything about your uploaded audio!",
		`data-conversation-id="5"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in transcript page", want)
		}
	}
	if strings.Contains(body, "Transcribe Audio") {
		t.Fatal("transcribe button should be hidden once a transcript exists")
	}
}

func TestTranscriptPageWithoutTranscript(t *testing.T) {
	src := &stubSource{convs: []*store.Conversation{{ID: 1, AudioPath: "/a.mp3"}}}
	body := get(t, newTestRouter(t, src), "/transcript/1").Body.String()
	for _, want := range []string{"No transcript available.", "Transcribe Audio", "No analysis available."} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q", want)
		}
	}
}

func TestTranscriptPageNotFound(t *testing.T) {
	rr := get(t, newTestRouter(t, &stubSource{}), "/transcript/9")
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "Conversation not found.") {
		t.Fatalf("expected 404 page, got %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	rr := get(t, newTestRouter(t, &stubSource{}), "/static/app.js")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "/conversations/chat") {
		t.Fatalf("expected app.js, got %d", rr.Code)
	}
}
