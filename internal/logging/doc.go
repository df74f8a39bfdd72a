// Package logging assembles structured slog loggers and formatting helpers used
// across voiceapp.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers and the
// conversation service tag log lines with request, conversation and
// operation identifiers. A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
