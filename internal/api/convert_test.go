package api_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"voiceapp/internal/analysis"
	"voiceapp/internal/api"
	"voiceapp/internal/conversation"
	"voiceapp/internal/services"
	"voiceapp/internal/store"
)

func TestFromConversationEmptyFieldsAreNull(t *testing.T) {
	conv := &store.Conversation{
		ID:        7,
		AudioPath: "/data/uploads/abc.mp3",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(api.FromConversation(conv))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`"id":7`,
		`"audioUrl":"/data/uploads/abc.mp3"`,
		`"transcriptText":null`,
		`"analysisJson":null`,
		`"createdAt":"2024-01-02T03:04:05.000Z"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, "updatedAt") {
		t.Fatalf("expected zero updatedAt omitted: %s", got)
	}
}

func TestFromConversationEmbedsAnalysisObject(t *testing.T) {
	conv := &store.Conversation{ID: 1, AudioPath: "a", TranscriptText: "hi", AnalysisJSON: `{"summary":"s"}`}
	data, _ := json.Marshal(api.FromConversation(conv))
	if !strings.Contains(string(data), `"analysisJson":{"summary":"s"}`) {
		t.Fatalf("expected embedded object, got %s", data)
	}
	if !strings.Contains(string(data), `"transcriptText":"hi"`) {
		t.Fatalf("expected transcript, got %s", data)
	}
}

func TestFromConversationsNeverNil(t *testing.T) {
	data, _ := json.Marshal(api.FromConversations(nil))
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestConversationIDAcceptsNumbersAndStrings(t *testing.T) {
	cases := map[string]int64{
		`{"conversationId":5}`:    5,
		`{"conversationId":"12"}`: 12,
		`{"conversationId":null}`: 0,
		`{}`:                      0,
	}
	for body, want := range cases {
		var req api.ConversationRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if int64(req.ConversationID) != want {
			t.Fatalf("%s: got %d want %d", body, req.ConversationID, want)
		}
	}
	var req api.ConversationRequest
	if err := json.Unmarshal([]byte(`{"conversationId":"abc"}`), &req); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestChatRequestMessageText(t *testing.T) {
	cases := []struct {
		body string
		text string
		ok   bool
	}{
		{`{"message":"hello"}`, "hello", true},
		{`{"message":""}`, "", true},
		{`{"message":42}`, "", false},
		{`{"message":null}`, "", false},
		{`{}`, "", false},
	}
	for _, tc := range cases {
		var req api.ChatRequest
		if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.body, err)
		}
		text, ok := req.MessageText()
		if text != tc.text || ok != tc.ok {
			t.Fatalf("%s: got (%q,%v) want (%q,%v)", tc.body, text, ok, tc.text, tc.ok)
		}
	}
}

func TestFromAnalyzeResult(t *testing.T) {
	res := &conversation.AnalyzeResult{ID: 3, Analysis: analysis.Parse("plain words")}
	data, _ := json.Marshal(api.FromAnalyzeResult(res))
	if string(data) != `{"id":3,"analysis":{"summary":"plain words"}}` {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestFromError(t *testing.T) {
	err := &conversation.Error{Kind: services.ErrExternal, Message: "Chat failed", Err: errors.New("timeout")}
	data, _ := json.Marshal(api.FromError(err))
	if string(data) != `{"error":"Chat failed","details":"timeout"}` {
		t.Fatalf("unexpected payload %s", data)
	}
	plain := &conversation.Error{Kind: services.ErrNotFound, Message: "Conversation not found"}
	data, _ = json.Marshal(api.FromError(plain))
	if string(data) != `{"error":"Conversation not found"}` {
		t.Fatalf("unexpected payload %s", data)
	}
}
