// Package index persists extracted recording metadata in SQLite.
//
// Downstream tooling (renaming, archiving) reads the index instead of
// re-parsing recordings. Each entry is keyed by the absolute recording path
// and carries the fifteen metadata fields, the completeness status, and the
// last parse error, if any.
//
// The watch command holds a WriterLock so only one long-running writer
// touches an index file at a time; one-shot CLI writes rely on SQLite's own
// locking plus busy retries.
package index
