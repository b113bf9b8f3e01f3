// Package discovery turns command-line inputs into the list of recordings to
// parse. Literal arguments pass through untouched so unrecognized names can be
// reported by the caller; glob patterns use doublestar syntax, including "**"
// and brace alternatives.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// RecordingPattern matches every EDF and ASC file below a directory.
const RecordingPattern = "**/*.{edf,asc}"

// Expand returns args followed by the files matched by patterns, in sorted
// order per pattern. Duplicates keep their first position.
func Expand(args, patterns []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	out := make([]string, 0, len(args))
	add := func(path string) {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, path)
	}

	for _, arg := range args {
		add(arg)
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(match)
		}
	}
	return out, nil
}

// FindRecordings lists recordings under root recursively, sorted, as paths
// joined onto root.
func FindRecordings(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), RecordingPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, filepath.Join(root, filepath.FromSlash(match)))
	}
	sort.Strings(out)
	return out, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
