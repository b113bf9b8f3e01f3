// Package main hosts the edfinfo CLI entrypoint and command graph.
//
// Invoked with recording paths, edfinfo prints the metadata of each EyeLink
// recording in the legacy text layout (or as a table, JSON, or YAML). The
// subcommands manage the SQLite index, watch a directory for new recordings,
// report converter and path readiness, and scaffold configuration.
//
// Keep this package lean: parsing, indexing, and rendering live in the
// internal packages; commands here only wire flags to them.
package main
