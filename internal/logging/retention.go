package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneSessionLogs removes server session logs in dir whose modification time
// is older than maxAge. The file named by keep is never removed. A zero maxAge
// disables pruning. It returns the number of files removed.
func PruneSessionLogs(logger *slog.Logger, dir string, maxAge time.Duration, keep string) int {
	if maxAge <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	keepAbs, _ := filepath.Abs(keep)
	cutoff := time.Now().Add(-maxAge)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(SessionLogPattern, entry.Name()); !matched {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil && abs == keepAbs {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the data directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}

// SessionLogPattern matches the per-session server log file names.
const SessionLogPattern = "server-*.log"

// SessionLogName returns the log file name for a server session started at ts.
func SessionLogName(ts time.Time, sessionID string) string {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	return "server-" + ts.UTC().Format("20060102T150405") + "-" + short + ".log"
}
