// Package conversation owns the upload, transcription, analysis and chat
// operations over conversation records.
//
// Service is built once at startup from a record store, an upload directory
// and the provider clients, then shared by the HTTP API, the CLI, the terminal
// browser and the MCP server. Each operation runs its steps sequentially and
// reports user-facing failures as *Error values whose Kind is one of the
// services sentinels; any other error is a storage failure.
package conversation
