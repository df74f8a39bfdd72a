// Package transcription converts stored audio files to text through an
// OpenAI-compatible speech-to-text endpoint.
//
// The client is a thin wrapper over go-openai's CreateTranscription call: it
// supplies the configured base URL, model and request timeout, uploads the file
// by path, and maps failures onto the services error markers. Requests are
// issued once and honour context cancellation.
package transcription
