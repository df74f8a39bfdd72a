// Package preflight provides readiness checks for the filesystem paths and
// external providers voiceapp depends on.
//
// The CLI "voiceapp doctor" command runs RunAll and prints each Result; the
// server runs the filesystem subset at startup and logs failures without
// refusing to start, since provider problems surface per request anyway.
package preflight
