package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"edfinfo/internal/config"
	"edfinfo/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckConverter reports whether the configured converter resolves. A missing
// converter is Optional: parsing degrades to preamble-only results.
func CheckConverter(cfg *config.Config) Result {
	const name = "Converter"
	if !cfg.Converter.Enabled {
		return Result{Name: name, Passed: true, Optional: true, Detail: "Disabled"}
	}
	statuses := deps.CheckBinaries([]deps.Requirement{deps.ConverterRequirement(cfg.ConverterBinary())})
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Optional: true, Detail: status.Detail + " (preamble only)"}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: status.Command}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if !cfg.Converter.Enabled {
		return nil
	}
	return deps.CheckBinaries([]deps.Requirement{deps.ConverterRequirement(cfg.ConverterBinary())})
}

// indexDir returns the directory holding the index database.
func indexDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.IndexPath)
}
