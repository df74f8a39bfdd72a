// Package main hosts the voiceapp CLI entrypoint and command graph.
//
// The Cobra command tree starts the HTTP server, scaffolds and validates
// configuration, runs provider preflight checks, and drives the conversation
// workflow (upload, transcribe, analyze, chat) directly against the local
// database. The browse and mcp commands expose the same operations through a
// terminal UI and a Model Context Protocol stdio server.
//
// Keep this package thin: new behavior belongs in internal packages and is
// surfaced here as commands or flags.
package main
