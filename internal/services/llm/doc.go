// Package llm provides an OpenAI-compatible chat-completion client used for
// transcript analysis and conversational chat.
//
// The client sends an ordered list of role/content messages to the configured
// model and returns the first non-empty content from the response. Requests
// are issued exactly once: provider failures surface to the caller as errors
// marked with services.ErrExternal, and a missing API key is reported as
// services.ErrConfiguration before any network traffic.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send messages, receive the assistant's reply text.
// Client.HealthCheck: verify API key and model availability.
package llm
