// Package serverrun wires configuration, logging, the store, provider
// clients, the conversation service and the HTTP server into one running
// process for "voiceapp serve".
package serverrun
