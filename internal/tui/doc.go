// Package tui implements "voiceapp browse", a terminal browser over stored
// conversations. The list view shows every record newest first; the detail
// view shows the transcript and analysis and can trigger transcription and
// analysis through the same conversation service the HTTP API uses.
package tui
