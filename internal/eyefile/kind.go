package eyefile

import (
	"fmt"
	"path/filepath"

	"edfinfo/internal/services"
)

// Recognized file extensions. Matching is case-sensitive.
const (
	BinaryExt = ".edf"
	TextExt   = ".asc"
)

// Kind identifies the container format of a recording.
type Kind int

const (
	KindUnknown Kind = iota
	// KindBinary is the proprietary EDF container.
	KindBinary
	// KindText is the ASC transcript.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "edf"
	case KindText:
		return "asc"
	default:
		return "unknown"
	}
}

// Classify reports the container kind of path from its extension alone. Any
// other extension fails with services.ErrInvalidInput. No I/O is performed.
func Classify(path string) (Kind, error) {
	switch filepath.Ext(path) {
	case BinaryExt:
		return KindBinary, nil
	case TextExt:
		return KindText, nil
	default:
		return KindUnknown, services.Wrap(services.ErrInvalidInput, "classify", "",
			fmt.Sprintf("%q is not an %s or %s file", path, BinaryExt, TextExt), nil)
	}
}

// IsRecording reports whether path carries a recognized extension.
func IsRecording(path string) bool {
	_, err := Classify(path)
	return err == nil
}
