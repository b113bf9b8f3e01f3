package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"edfinfo/internal/eyefile"
)

// Document is the machine-readable form of one parse result.
type Document struct {
	Path     string            `json:"path" yaml:"path"`
	Kind     string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Complete bool              `json:"complete" yaml:"complete"`
	Fallback string            `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Fields   map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Missing  []string          `json:"missing,omitempty" yaml:"missing,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewDocument converts a parse result. rec may be nil when err is set.
func NewDocument(path string, rec *eyefile.Record, err error) Document {
	doc := Document{Path: path}
	if err != nil {
		doc.Error = err.Error()
	}
	if rec == nil {
		return doc
	}
	doc.Kind = rec.Kind().String()
	doc.Complete = rec.IsComplete()
	doc.Fallback = string(rec.Fallback())
	doc.Fields = rec.Fields()
	for _, f := range rec.Missing() {
		doc.Missing = append(doc.Missing, f.Key())
	}
	return doc
}

// WriteJSON encodes docs as an indented JSON array.
func WriteJSON(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// WriteYAML encodes docs as a YAML sequence.
func WriteYAML(w io.Writer, docs []Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}
