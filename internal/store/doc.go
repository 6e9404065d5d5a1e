// Package store persists seed hits and per-read map decisions to
// SQLite for offline analysis of mapping runs.
//
// The database is append-only from the mapper's point of view: one row
// per emitted seed, one row per finished read. SQLite runs in WAL mode
// so analysis tooling can read while a run is writing; the mapper is
// the single writer.
package store
