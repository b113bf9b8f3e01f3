package services

import (
	"errors"
	"fmt"
	"strings"

	"edfinfo/internal/index"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrConverterMissing = errors.New("converter missing")
	ErrConverterTimeout = errors.New("converter timeout")
	ErrDecode           = errors.New("decode error")
	ErrExternalTool     = errors.New("external tool error")
	ErrConfiguration    = errors.New("configuration error")
)

// Wrap builds an error message that includes phase context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IndexStatus maps a parse error to the status persisted in the recording
// index. Unrecognized paths are skipped; everything else is a failure.
func IndexStatus(err error) index.Status {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return index.StatusSkipped
	default:
		return index.StatusFailed
	}
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
