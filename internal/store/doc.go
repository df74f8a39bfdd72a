// Package store persists conversation records in SQLite.
//
// The Store manages the database connection, schema initialization and the
// create/list/get/update/delete operations the conversation service needs.
// Identifiers come from an AUTOINCREMENT primary key so they are never reused
// after a delete. Timestamps are stored as fixed-width UTC strings so lexical
// and chronological ordering agree.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt a new schema.
package store
