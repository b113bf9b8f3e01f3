// Package eyefile extracts session metadata from SR Research EyeLink
// recordings, either binary EDF containers or their ASC text transcripts.
//
// Extraction runs in two phases. The preamble scan reads header lines up to
// the first MSG or ENDP: line and applies the preamble rules with first-match
// dispatch. When the resulting Record is still incomplete and a converter is
// available, the fallback phase produces an ASC transcript in a private
// temporary directory (running edf2asc, or copying the file when it is already
// text) and applies the message rules to every MSG line. Message values
// overwrite preamble values and the last matching line wins.
//
// Every Parse call returns a freshly constructed Record. Records are not
// modified after they are returned and may be shared between goroutines.
package eyefile
