// Package mcpserver exposes conversation operations as Model Context Protocol
// tools so assistants can list, inspect, transcribe, analyze and chat about
// stored conversations. "voiceapp mcp" serves it over stdio.
package mcpserver
