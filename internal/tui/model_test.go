package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"voiceapp/internal/conversation"
	"voiceapp/internal/services"
	"voiceapp/internal/store"
)

type fakeService struct {
	items       []*store.Conversation
	transcribed []int64
	analyzed    []int64
	err         error
}

func (f *fakeService) List(context.Context) ([]*store.Conversation, error) {
	return f.items, f.err
}

func (f *fakeService) Get(_ context.Context, id int64) (*store.Conversation, error) {
	for _, conv := range f.items {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, &conversation.Error{Kind: services.ErrNotFound, Message: conversation.MsgNotFound}
}

func (f *fakeService) Transcribe(_ context.Context, id int64) (*conversation.TranscribeResult, error) {
	f.transcribed = append(f.transcribed, id)
	if f.err != nil {
		return nil, f.err
	}
	return &conversation.TranscribeResult{ID: id, TranscriptText: "text"}, nil
}

func (f *fakeService) Analyze(_ context.Context, id int64) (*conversation.AnalyzeResult, error) {
	f.analyzed = append(f.analyzed, id)
	return &conversation.AnalyzeResult{ID: id}, f.err
}

func sampleItems() []*store.Conversation {
	now := time.Now()
	return []*store.Conversation{
		{ID: 3, AudioPath: "/c.mp3", TranscriptText: "third", AnalysisJSON: `{"summary":"Call wrap-up","sentiment":{"closing":"POSITIVE"}}`, CreatedAt: now},
		{ID: 2, AudioPath: "/b.mp3", TranscriptText: "second", CreatedAt: now.Add(-time.Minute)},
		{ID: 1, AudioPath: "/a.mp3", CreatedAt: now.Add(-time.Hour)},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func loaded(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(context.Background(), svc)
	msg := m.Init()()
	m, _ = update(t, m, msg)
	return m
}

func TestInitLoadsList(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := loaded(t, svc)
	if m.loading || len(m.items) != 3 {
		t.Fatalf("expected three loaded items, got %d (loading=%v)", len(m.items), m.loading)
	}
	view := m.View()
	for _, want := range []string{"analyzed", "transcribed", "uploaded"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in list view", want)
		}
	}
}

func TestListLoadErrorShown(t *testing.T) {
	m := loaded(t, &fakeService{err: errors.New("database locked")})
	if !strings.Contains(m.View(), "database locked") {
		t.Fatal("expected error in view")
	}
}

func TestNavigationClampsSelection(t *testing.T) {
	m := loaded(t, &fakeService{items: sampleItems()})
	m, _ = update(t, m, key("up"))
	if m.selected != 0 {
		t.Fatalf("expected selection to stay at 0, got %d", m.selected)
	}
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("down"))
	}
	if m.selected != 2 {
		t.Fatalf("expected selection clamped at 2, got %d", m.selected)
	}
}

func TestEnterOpensDetailAndEscReturns(t *testing.T) {
	m := loaded(t, &fakeService{items: sampleItems()})
	m.height = 40
	m, cmd := update(t, m, key("enter"))
	if m.mode != modeDetail || m.detail == nil || m.detail.ID != 3 {
		t.Fatalf("expected detail for #3, got mode=%v detail=%v", m.mode, m.detail)
	}
	if cmd == nil {
		t.Fatal("expected detail reload command")
	}
	view := m.View()
	for _, want := range []string{"Conversation #3", "third", "Call wrap-up", "Closing"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in detail view", want)
		}
	}

	m, _ = update(t, m, key("esc"))
	if m.mode != modeList || m.detail != nil {
		t.Fatal("expected to return to list")
	}
}

func TestTranscribeRunsAndReloads(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := loaded(t, svc)
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))

	m, cmd := update(t, m, key("t"))
	if m.busy == "" || cmd == nil {
		t.Fatal("expected busy state and command")
	}
	// A second request while busy is ignored.
	if _, again := update(t, m, key("t")); again != nil {
		t.Fatal("expected no command while busy")
	}

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok || done.id != 1 || done.action != "transcribe" {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(svc.transcribed) != 1 || svc.transcribed[0] != 1 {
		t.Fatalf("expected transcribe of #1, got %v", svc.transcribed)
	}
	m, reload := update(t, m, done)
	if m.busy != "" || reload == nil {
		t.Fatal("expected busy cleared and list reload")
	}
}

func TestAnalyzeWithoutTranscriptIsRejectedLocally(t *testing.T) {
	svc := &fakeService{items: sampleItems()}
	m := loaded(t, svc)
	m.selected = 2

	m, cmd := update(t, m, key("a"))
	if cmd != nil {
		t.Fatal("expected no command without transcript")
	}
	if m.errorMessage != conversation.MsgNoTranscript {
		t.Fatalf("unexpected error %q", m.errorMessage)
	}
	if len(svc.analyzed) != 0 {
		t.Fatal("service must not be called")
	}
}

func TestActionErrorShowsDetails(t *testing.T) {
	m := loaded(t, &fakeService{items: sampleItems()})
	m.busy = "Transcribing"
	m, _ = update(t, m, actionDoneMsg{id: 1, action: "transcribe", err: &conversation.Error{
		Kind:    services.ErrExternal,
		Message: conversation.MsgTranscriptionFailed,
		Err:     errors.New("provider returned http 401"),
	}})
	if m.errorMessage != "Transcription failed: provider returned http 401" {
		t.Fatalf("unexpected error %q", m.errorMessage)
	}
}

func TestQuit(t *testing.T) {
	m := loaded(t, &fakeService{})
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
