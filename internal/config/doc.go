// Package config loads, normalizes, and validates edfinfo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EDFINFO_CONVERTER. The Config type centralizes every knob the CLI and the
// extractor need: where the index and logs live, which converter binary to
// run and for how long, and how parsed recordings are handled.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
