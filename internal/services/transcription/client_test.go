package transcription_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voiceapp/internal/services"
	"voiceapp/internal/services/transcription"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3-fake-audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeUploadsFileAndModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3-turbo" {
			t.Errorf("unexpected model %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			data, _ := io.ReadAll(file)
			if string(data) != "ID3-fake-audio" {
				t.Errorf("unexpected file contents %q", data)
			}
			if header.Filename != "clip.mp3" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Hello world."}`))
	}))
	defer server.Close()

	client := transcription.NewClient(transcription.Config{APIKey: "key", BaseURL: server.URL + "/"})
	text, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "Hello world." {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscribeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"file must be audio","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := transcription.NewClient(transcription.Config{APIKey: "key", BaseURL: server.URL})
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if !strings.Contains(err.Error(), "http 400") {
		t.Fatalf("expected status in error, got %q", err.Error())
	}
}

func TestTranscribeWithoutKey(t *testing.T) {
	client := transcription.NewClient(transcription.Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := transcription.NewClient(transcription.Config{APIKey: "k"})
	if client.Model() != "whisper-large-v3-turbo" {
		t.Fatalf("unexpected default model %q", client.Model())
	}
}
