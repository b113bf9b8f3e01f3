package eyefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"edfinfo/internal/services"
)

// Boundary markers that end the preamble. The boundary line itself is not
// offered to the preamble rules.
const (
	markerMessage = "MSG"
	markerEndP    = "ENDP:"
)

var legacyMessageRules = MessageRules(FieldRecording)

// IsPreambleBoundary reports whether line ends the preamble.
func IsPreambleBoundary(line string) bool {
	return strings.HasPrefix(line, markerMessage) || strings.HasPrefix(line, markerEndP)
}

// ScanPreamble applies the preamble rules with first-match dispatch to each
// line of r until a boundary line or EOF.
func ScanPreamble(r io.Reader, rec *Record) error {
	_, err := scanPreamble(r, preambleRules, rec)
	return err
}

// ScanMessages applies the message rules to every MSG line of r, overwriting
// existing values. RECORDED BY messages populate the recording field.
func ScanMessages(r io.Reader, rec *Record) error {
	_, err := scanMessages(r, legacyMessageRules, rec, nil)
	return err
}

// scanPreamble returns the number of lines consumed, boundary excluded.
func scanPreamble(r io.Reader, rules []Rule, rec *Record) (int, error) {
	lines := newLineReader(r)
	for {
		line, err := lines.next()
		if errors.Is(err, io.EOF) {
			return lines.count, nil
		}
		if err != nil {
			return lines.count, err
		}
		if IsPreambleBoundary(line) {
			return lines.count - 1, nil
		}
		Apply(line, rules, FirstMatch, rec)
	}
}

// scanMessages returns the number of MSG lines inspected. onMatch, when set,
// is called for each rule that stored a value.
func scanMessages(r io.Reader, rules []Rule, rec *Record, onMatch func(Rule, string)) (int, error) {
	lines := newLineReader(r)
	var inspected int
	for {
		line, err := lines.next()
		if errors.Is(err, io.EOF) {
			return inspected, nil
		}
		if err != nil {
			return inspected, err
		}
		if !strings.HasPrefix(line, markerMessage) {
			continue
		}
		inspected++
		line = strings.TrimSpace(line)
		for _, rule := range Apply(line, rules, AllMatches, rec) {
			if onMatch != nil {
				onMatch(rule, line)
			}
		}
	}
}

// lineReader yields UTF-8 validated lines without their terminators. Lines
// are not length-limited since EDF headers can precede long binary runs.
type lineReader struct {
	br    *bufio.Reader
	count int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

func (l *lineReader) next() (string, error) {
	raw, err := l.br.ReadString('\n')
	if raw == "" && errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	l.count++
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read line %d: %w", l.count, err)
	}
	if !utf8.ValidString(raw) {
		return "", services.Wrap(services.ErrDecode, "scan", "", fmt.Sprintf("line %d is not valid UTF-8", l.count), nil)
	}
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	return raw, nil
}
