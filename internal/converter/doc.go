// Package converter wraps the SR Research edf2asc command used to transcode
// binary EDF recordings into ASC text transcripts.
//
// The Client always requests overwrite (-y) and omits raw samples (-ns) so the
// transcript stays small and only events and messages remain. Execution is
// abstracted behind the Executor interface so tests can substitute a stub, and
// every invocation is bounded by the configured timeout. Expiry surfaces as
// services.ErrConverterTimeout. The converter's exit status is not consulted;
// callers read the output file back and treat a missing transcript as the
// failure signal.
package converter
