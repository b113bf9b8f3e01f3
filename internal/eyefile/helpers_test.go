package eyefile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"edfinfo/internal/deps"
)

const fullPreamble = `** CONVERTED FROM D:\data\s01.edf using edfapi 4.2.1 Win32  Jun 13 2019
** DATE: Mon Jan 15 09:58:12 2024
** TYPE: EDF_FILE BINARY EVENT SAMPLE TAGGED
** VERSION: EYELINK II 1
** SOURCE: EYELINK CL
** EYELINK II CL v6.12 Feb  1 2018 (EyeLink Portable Duo)
** CAMERA: EyeLink USBCAM Version 1.01
** SERIAL NUMBER: CLU-DAB50
** CAMERA_CONFIG: DAB50200.SCD
** RECORDED BY: zep
** EXPERIMENT: reading
** RESEARCHER: jdoe
** PARTICIPANT: pp01
** SESSION: 1
** LIST: A
** RECORDING: rec01
**
`

// preambleWithout returns fullPreamble minus the lines containing any of keywords.
func preambleWithout(keywords ...string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(fullPreamble, "\n") {
		drop := false
		for _, kw := range keywords {
			if strings.Contains(line, "** "+kw+":") {
				drop = true
			}
		}
		if !drop {
			b.WriteString(line)
		}
	}
	return b.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// stubConverter writes transcript to dst instead of running edf2asc.
type stubConverter struct {
	mu         sync.Mutex
	transcript string
	err        error
	write      bool
	calls      int
	binaries   []string
	dsts       []string
	delay      time.Duration
}

func newStubConverter(transcript string) *stubConverter {
	return &stubConverter{transcript: transcript, write: true}
}

func (s *stubConverter) Convert(ctx context.Context, binary, src, dst string) error {
	s.mu.Lock()
	s.calls++
	s.binaries = append(s.binaries, binary)
	s.dsts = append(s.dsts, dst)
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return s.err
	}
	if !s.write {
		return nil
	}
	return os.WriteFile(dst, []byte(s.transcript), 0o644)
}

func (s *stubConverter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// countingLocator reports a fixed converter path, or ErrNotFound when missing.
type countingLocator struct {
	mu      sync.Mutex
	missing bool
	calls   int
}

func (l *countingLocator) Locate(command string) (string, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.missing {
		return "", deps.ErrNotFound
	}
	return "/stub/bin/" + command, nil
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected %s to be empty, found %v", dir, names)
	}
}
