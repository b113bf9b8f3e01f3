// Package services defines shared utilities consumed by the metadata
// extractor, the external converter client, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp recording paths, extraction phases, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent index statuses (skipped vs failed).
//
// Use these helpers when wiring new extraction logic so error handling and
// observability stay uniform across the tool.
package services
