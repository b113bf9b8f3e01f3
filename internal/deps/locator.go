package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound reports that a binary could not be resolved.
var ErrNotFound = errors.New("binary not found")

// Locator resolves an executable name to a runnable path. The lookup happens
// on every call so binaries installed while the process runs are picked up.
type Locator interface {
	Locate(command string) (string, error)
}

// LocatorFunc adapts a function into a Locator.
type LocatorFunc func(command string) (string, error)

// Locate calls f(command).
func (f LocatorFunc) Locate(command string) (string, error) { return f(command) }

// PathLocator searches PATH first and then the SR Research install
// directories, which are frequently absent from PATH on lab machines.
type PathLocator struct {
	ExtraDirs []string
}

// SRResearchDirs lists the default install locations of the EyeLink
// Developers Kit converter tools.
func SRResearchDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/Applications/Eyelink/EDF_Access_API/Example", "/usr/local/bin"}
	case "windows":
		return []string{`C:\Program Files (x86)\SR Research\EyeLink\bin`, `C:\Program Files\SR Research\EyeLink\bin`}
	default:
		return []string{"/usr/bin", "/usr/local/bin", "/opt/sr-research/bin"}
	}
}

// DefaultLocator returns a PathLocator seeded with SRResearchDirs.
func DefaultLocator() PathLocator {
	return PathLocator{ExtraDirs: SRResearchDirs()}
}

// Locate implements Locator.
func (l PathLocator) Locate(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("%w: empty command", ErrNotFound)
	}

	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		if info, err := os.Stat(command); err == nil && isExecutable(info) {
			return command, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, command)
	}

	if resolved, err := exec.LookPath(command); err == nil {
		return resolved, nil
	}

	name := command
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	for _, dir := range l.ExtraDirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, command)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
