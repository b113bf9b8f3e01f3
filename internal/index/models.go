package index

import (
	"strings"
	"time"
)

// Status represents the outcome of the most recent parse of a recording.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
)

var allStatuses = []Status{
	StatusComplete,
	StatusPartial,
	StatusFailed,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns every known status in display order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a user supplied string into a Status.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

// Field keys stored in dedicated columns for filtering.
const (
	keyExperiment  = "experiment"
	keyParticipant = "participant"
	keySession     = "session"
	keyList        = "list"
	keyRecording   = "recording"
)

// Entry is a single indexed recording.
type Entry struct {
	ID        string
	Path      string
	Kind      string
	Status    Status
	Fields    map[string]string
	Missing   []string
	Error     string
	ParsedAt  time.Time
	UpdatedAt time.Time
}

// Field returns the stored value for key, or "" when unset.
func (e *Entry) Field(key string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	return e.Fields[key]
}
