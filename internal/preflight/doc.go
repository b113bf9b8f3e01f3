// Package preflight provides readiness checks for the converter binary and
// the filesystem paths edfinfo writes to.
//
// These checks run in two contexts:
//   - The watch command calls RunAll before it starts, and refuses to run
//     when a required path is unusable.
//   - The CLI "edfinfo status" command renders every result.
//
// The converter check never fails hard: without edf2asc the parser still
// extracts preamble metadata.
package preflight
