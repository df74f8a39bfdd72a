package serverrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"voiceapp/internal/config"
	"voiceapp/internal/httpapi"
	"voiceapp/internal/logging"
	"voiceapp/internal/preflight"
	"voiceapp/internal/store"
	"voiceapp/internal/web"
)

const defaultLogRetention = 14 * 24 * time.Hour

// ErrAlreadyRunning is returned when another server holds the data directory lock.
var ErrAlreadyRunning = errors.New("another voiceapp server is already using this data directory")

// Options configures server process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level when set.
	LogLevel    string
	Development bool
	// LogRetention bounds how long session logs are kept. Zero uses the
	// default; a negative value disables pruning.
	LogRetention time.Duration
	// Ready, when set, is called with the bound address once the server listens.
	Ready func(addr string)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the process
// receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (%s)", ErrAlreadyRunning, cfg.Paths.DataDir)
	}
	defer func() { _ = lock.Unlock() }()

	sessionID := uuid.NewString()
	logPath := filepath.Join(cfg.LogDir(), logging.SessionLogName(time.Now(), sessionID))
	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		FilePath:    logPath,
		SessionID:   sessionID,
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.LogDir(), logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update server.log link: %v\n", err)
	}
	retention := opts.LogRetention
	if retention == 0 {
		retention = defaultLogRetention
	}
	logging.PruneSessionLogs(logger, cfg.LogDir(), retention, logPath)

	logStartupSnapshot(signalCtx, logger, cfg)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open conversation store", logging.Error(err))
		return err
	}
	defer st.Close()

	svc := BuildService(cfg, st, logger)
	pages, err := web.New(svc, logger)
	if err != nil {
		return fmt.Errorf("load web pages: %w", err)
	}
	server, err := httpapi.New(cfg, svc, logger, httpapi.WithPages(pages), httpapi.WithPinger(st))
	if err != nil {
		return fmt.Errorf("create api server: %w", err)
	}
	if err := server.Start(signalCtx); err != nil {
		return err
	}
	defer server.Stop()

	logger.Info("voiceapp server started",
		logging.String(logging.FieldEventType, "server_started"),
		logging.String("address", server.Addr()),
		logging.String("database", st.Path()),
		logging.String("upload_dir", cfg.Paths.UploadDir),
		logging.String("log_path", logPath),
	)
	if opts.Ready != nil {
		opts.Ready(server.Addr())
	}

	<-signalCtx.Done()
	logger.Info("voiceapp server shutting down", logging.String(logging.FieldEventType, "server_stopping"))
	return nil
}

// logStartupSnapshot records provider settings and local preflight results.
// Failures are logged, not fatal: provider problems are reported per request.
func logStartupSnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	tr := cfg.GetTranscription()
	logger.Info("provider snapshot",
		logging.String(logging.FieldEventType, "provider_snapshot"),
		logging.Bool("llm_key_present", cfg.LLM.APIKey != ""),
		logging.Bool("transcription_key_present", tr.APIKey != ""),
		logging.String("analysis_model", cfg.LLM.AnalysisModel),
		logging.String("chat_model", cfg.LLM.ChatModel),
		logging.String("transcription_model", tr.Model),
	)
	if cfg.LLM.APIKey == "" {
		logging.WarnWithContext(logger, "no LLM API key configured", "api_key_missing",
			logging.String(logging.FieldErrorHint, "set llm.api_key or GROQ_API_KEY"),
			logging.String(logging.FieldImpact, "transcribe, analyze and chat requests will fail"),
		)
	}
	for _, result := range preflight.RunLocal(ctx, cfg) {
		if result.Passed {
			logger.Debug("preflight passed", logging.String("check", result.Name), logging.String("detail", result.Detail))
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "server.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}
