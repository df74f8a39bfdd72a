package serverrun

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"voiceapp/internal/logging"
	"voiceapp/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, Options{LogLevel: "error", Ready: func(addr string) { ready <- addr }})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not become ready")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get("http://" + addr + "/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	matches, _ := filepath.Glob(filepath.Join(cfg.LogDir(), logging.SessionLogPattern))
	if len(matches) != 1 {
		t.Fatalf("expected one session log, got %v", matches)
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	err = Run(context.Background(), cfg, Options{})
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestBuildServiceWithoutKeysReportsProviderFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIKey(""))
	st := testsupport.MustOpenStore(t, cfg)
	svc := BuildService(cfg, st, logging.NewNop())

	_, err := svc.Chat(context.Background(), "hello", 0)
	if err == nil {
		t.Fatal("expected chat to fail without an API key")
	}
}

func TestUploadThroughBuiltService(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := BuildService(cfg, st, logging.NewNop())

	conv, err := svc.Upload(context.Background(), "call.wav", bytes.NewReader([]byte("RIFF")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if filepath.Dir(conv.AudioPath) != cfg.Paths.UploadDir {
		t.Fatalf("expected file under upload dir, got %s", conv.AudioPath)
	}
	if _, err := os.Stat(conv.AudioPath); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestEnsureCurrentLogPointer(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "server-x.log")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureCurrentLogPointer(dir, target); err != nil {
		t.Fatalf("ensureCurrentLogPointer: %v", err)
	}
	if err := ensureCurrentLogPointer(dir, target); err != nil {
		t.Fatalf("second call: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "server.log"))
	if err != nil || string(data) != "x" {
		t.Fatalf("expected pointer to target, got %q %v", data, err)
	}
}
