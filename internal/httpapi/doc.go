// Package httpapi serves the conversation JSON API and the web pages.
//
// Routes are registered on a gorilla/mux router. Soft failures reported by
// the conversation service are answered with HTTP 200 and an {error,
// details} body so existing browser clients keep working; malformed bodies
// get 400 and store failures 500. Every request carries a request id that is
// echoed in X-Request-ID and attached to log records.
package httpapi
