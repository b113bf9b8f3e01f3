// Package logging assembles structured slog loggers and formatting helpers used
// across edfinfo.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so extraction code automatically tags log lines
// with the recording path, phase, and correlation ID. A no-op logger is
// provided for tests and library callers that do not configure logging.
package logging
