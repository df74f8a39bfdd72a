package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fakeReply = `{"summary":"Renewal agreed","sentiment":[{"section":"Opening","sentiment":"positive"}],"entities":[{"entity_type":"ORG","text":"Acme"}]}`

type cliTestEnv struct {
	configPath string
	dataDir    string
	baseDir    string
	provider   *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("VOICEAPP_TRANSCRIPTION_API_KEY", "")
	t.Setenv("VOICEAPP_DATA_DIR", "")

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/audio/transcriptions":
			_, _ = w.Write([]byte(`{"text":"we discussed the renewal"}`))
		case "/chat/completions":
			body, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"content": fakeReply}}},
			})
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(provider.Close)

	env := &cliTestEnv{
		configPath: filepath.Join(base, "voiceapp.toml"),
		dataDir:    filepath.Join(base, "data"),
		baseDir:    base,
		provider:   provider,
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
api_bind = "127.0.0.1:0"

[llm]
api_key = "test"
base_url = %q

[transcription]
base_url = %q

[logging]
level = "error"
`, env.dataDir, provider.URL+"/chat/completions", provider.URL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, name)
	if err := os.WriteFile(path, []byte("ID3-fake-audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
