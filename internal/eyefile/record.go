package eyefile

import "strings"

// Field names one metadata attribute of a recording.
type Field int

const (
	FieldDate Field = iota
	FieldType
	FieldVersion
	FieldSource
	FieldEyelink
	FieldCamera
	FieldSerialNumber
	FieldCameraConfig
	FieldRecordedBy
	FieldExperiment
	FieldResearcher
	FieldParticipant
	FieldSession
	FieldList
	FieldRecording
	fieldCount
)

var fieldKeys = [fieldCount]string{
	"date",
	"type",
	"version",
	"source",
	"eyelink",
	"camera",
	"serial_number",
	"camera_config",
	"recorded_by",
	"experiment",
	"researcher",
	"participant",
	"session",
	"list",
	"recording",
}

// Key returns the stable snake_case identifier used in JSON, YAML and the index.
func (f Field) Key() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldKeys[f]
}

// Label returns the human-readable name ("serial number").
func (f Field) Label() string {
	return strings.ReplaceAll(f.Key(), "_", " ")
}

func (f Field) String() string { return f.Key() }

// AllFields lists every field in display order.
func AllFields() []Field {
	fields := make([]Field, fieldCount)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// ParseField resolves a key or label ("serial_number", "serial number") to a Field.
func ParseField(name string) (Field, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	for i, candidate := range fieldKeys {
		if candidate == key {
			return Field(i), true
		}
	}
	return 0, false
}

// Phase identifies which extraction phase produced a value.
type Phase int

const (
	PhaseNone Phase = iota
	PhasePreamble
	PhaseMessage
)

func (p Phase) String() string {
	switch p {
	case PhasePreamble:
		return "preamble"
	case PhaseMessage:
		return "message"
	default:
		return "none"
	}
}

// FallbackSource records how the fallback phase obtained its transcript.
type FallbackSource string

const (
	// FallbackNone means the preamble was complete and no fallback ran.
	FallbackNone FallbackSource = ""
	// FallbackConverter means edf2asc produced the transcript.
	FallbackConverter FallbackSource = "converter"
	// FallbackCopy means an ASC source was copied verbatim.
	FallbackCopy FallbackSource = "copy"
	// FallbackSkipped means the record was incomplete but no converter was available.
	FallbackSkipped FallbackSource = "skipped"
	// FallbackDisabled means the fallback phase is switched off.
	FallbackDisabled FallbackSource = "disabled"
)

// Record holds the fifteen metadata fields of one recording. The zero value
// is an empty record; unset fields are the empty string.
type Record struct {
	path     string
	kind     Kind
	values   [fieldCount]string
	origins  [fieldCount]Phase
	fallback FallbackSource
}

// NewRecord returns an empty record for path.
func NewRecord(path string, kind Kind) *Record {
	return &Record{path: path, kind: kind}
}

// RecordFromFields rebuilds a record from stored key/value pairs. Unknown keys
// are ignored.
func RecordFromFields(path string, kind Kind, fields map[string]string) *Record {
	rec := NewRecord(path, kind)
	for key, value := range fields {
		if f, ok := ParseField(key); ok {
			rec.set(f, value, PhaseNone)
		}
	}
	return rec
}

// Path returns the source file the record was extracted from.
func (r *Record) Path() string { return r.path }

// Kind returns the source container kind.
func (r *Record) Kind() Kind { return r.kind }

// Get returns the value of f, or "" when unset.
func (r *Record) Get(f Field) string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return r.values[f]
}

// Origin reports which phase last set f.
func (r *Record) Origin(f Field) Phase {
	if f < 0 || f >= fieldCount {
		return PhaseNone
	}
	return r.origins[f]
}

// Fallback reports whether and how the fallback phase ran.
func (r *Record) Fallback() FallbackSource { return r.fallback }

// set stores value for f. An empty value never clears a field.
func (r *Record) set(f Field, value string, phase Phase) bool {
	if value == "" || f < 0 || f >= fieldCount {
		return false
	}
	r.values[f] = value
	r.origins[f] = phase
	return true
}

// IsComplete reports whether every field is non-empty.
func (r *Record) IsComplete() bool {
	for _, v := range r.values {
		if v == "" {
			return false
		}
	}
	return true
}

// Missing lists the unset fields in display order.
func (r *Record) Missing() []Field {
	var missing []Field
	for i, v := range r.values {
		if v == "" {
			missing = append(missing, Field(i))
		}
	}
	return missing
}

// Fields returns the set fields keyed by Field.Key.
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, fieldCount)
	for i, v := range r.values {
		if v != "" {
			out[fieldKeys[i]] = v
		}
	}
	return out
}

// clone returns an independent copy.
func (r *Record) clone() *Record {
	cp := *r
	return &cp
}
