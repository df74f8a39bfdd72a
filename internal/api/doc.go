// Package api defines the JSON payloads exchanged by the HTTP API, the web
// pages' scripts, the CLI's --json output and the MCP tools.
//
// Field names are camelCase to match what browser clients already expect.
// Converters in this package turn store records and service results into
// these shapes so every surface renders a conversation identically.
package api
