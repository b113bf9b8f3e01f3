package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Preamble is a complete recording header; every metadata field is set.
var Preamble = []string{
	"** CONVERTED FROM D:\\data\\s01.edf using edfapi 4.2.1 Jan 15 2024 on Mon Jan 15 10:02:11 2024",
	"** DATE: Mon Jan 15 09:58:12 2024",
	"** TYPE: EDF_FILE BINARY EVENT SAMPLE TAGGED",
	"** VERSION: EYELINK II 1",
	"** SOURCE: EYELINK CL",
	"** EYELINK II CL v6.12 Feb  1 2018 (EyeLink Portable Duo)",
	"** CAMERA: EyeLink USBCAM Version 1.01",
	"** SERIAL NUMBER: CLU-DAB50",
	"** CAMERA_CONFIG: DAB50200.SCD",
	"** RECORDED BY: SleepTracker",
	"** EXPERIMENT: reading",
	"** RESEARCHER: jdoe",
	"** PARTICIPANT: p01",
	"** SESSION: 1",
	"** LIST: A",
	"** RECORDING: rec01",
	"**",
}

// WriteRecording writes lines joined by newlines to dir/name and returns the
// path. Parent directories are created as needed.
func WriteRecording(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// PreambleWithout returns Preamble minus the lines for the given keywords
// ("RECORDING", "SERIAL NUMBER").
func PreambleWithout(keywords ...string) []string {
	out := make([]string, 0, len(Preamble))
	for _, line := range Preamble {
		drop := false
		for _, kw := range keywords {
			if strings.HasPrefix(line, "** "+kw+":") {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, line)
		}
	}
	return out
}
