// Package fileutil holds small filesystem helpers shared by the extractor and
// the CLI.
package fileutil

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst, truncating dst and creating it with mode 0o644.
func CopyFile(src, dst string) error {
	_, _, err := copyHashed(src, dst)
	return err
}

// CopyFileVerified copies src to dst and re-reads dst to confirm the bytes
// match. dst is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	written, srcSum, err := copyHashed(src, dst)
	if err != nil {
		return err
	}

	out, err := os.Open(dst)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer out.Close()
	hasher := sha256.New()
	read, err := io.Copy(hasher, out)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if read != written {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: wrote %d bytes, read back %d", written, read)
	}
	if string(hasher.Sum(nil)) != string(srcSum) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: %s differs from %s", dst, src)
	}
	return nil
}

func copyHashed(src, dst string) (int64, []byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, nil, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, nil, err
	}
	defer out.Close()

	hasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, hasher))
	if err != nil {
		return 0, nil, err
	}
	if err := out.Close(); err != nil {
		return 0, nil, err
	}
	return written, hasher.Sum(nil), nil
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WithExt returns the base name of path with its extension replaced by ext.
func WithExt(path, ext string) string {
	return Stem(path) + ext
}
