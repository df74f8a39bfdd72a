// Package web renders the browser UI: a home page with a chat widget, an
// upload page, the conversations dashboard and the per-conversation
// transcript page.
//
// Pages are html/template files embedded in the binary and rendered from the
// conversation service on each request. In-page actions (upload, transcribe,
// analyze, chat, downloads) are handled by static/app.js against the JSON
// API, after which the page reloads to show the stored result.
package web
