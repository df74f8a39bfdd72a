package logging

import (
	"context"
	"log/slog"
)

// sessionTee sends every record to the console handler and a copy to the
// session log file handler.
type sessionTee struct {
	console slog.Handler
	file    slog.Handler
}

func newSessionTee(console, file slog.Handler) slog.Handler {
	return &sessionTee{console: console, file: file}
}

func (t *sessionTee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.file.Enabled(ctx, level)
}

func (t *sessionTee) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if t.console.Enabled(ctx, record.Level) {
		consoleErr = t.console.Handle(ctx, record.Clone())
	}
	if t.file.Enabled(ctx, record.Level) {
		if err := t.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	return consoleErr
}

func (t *sessionTee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionTee{console: t.console.WithAttrs(attrs), file: t.file.WithAttrs(attrs)}
}

func (t *sessionTee) WithGroup(name string) slog.Handler {
	return &sessionTee{console: t.console.WithGroup(name), file: t.file.WithGroup(name)}
}
