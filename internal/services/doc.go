// Package services defines shared utilities consumed by the conversation
// service and its provider integrations.
//
// It holds context helpers that stamp conversation IDs, operation names and
// request correlation identifiers for logging, plus the sentinel error markers
// and Wrap helper that let callers classify failures without string matching.
// Provider clients live in the llm and transcription subpackages.
package services
