package report

import (
	"fmt"
	"io"
	"strings"

	"edfinfo/internal/eyefile"
)

// textLabels holds the legacy label and tab padding for each field.
var textLabels = map[eyefile.Field]string{
	eyefile.FieldDate:         "  date:\t\t\t",
	eyefile.FieldType:         "  type:\t\t\t",
	eyefile.FieldVersion:      "  version:\t\t",
	eyefile.FieldSource:       "  source:\t\t",
	eyefile.FieldEyelink:      "  eyelink:\t\t",
	eyefile.FieldCamera:       "  camera:\t\t",
	eyefile.FieldSerialNumber: "  serial number:\t",
	eyefile.FieldCameraConfig: "  camera config:\t",
	eyefile.FieldRecordedBy:   "  recorded by:\t\t",
	eyefile.FieldExperiment:   "  experiment:\t\t",
	eyefile.FieldResearcher:   "  researcher:\t\t",
	eyefile.FieldParticipant:  "  participant:\t\t",
	eyefile.FieldSession:      "  session:\t\t",
	eyefile.FieldList:         "  list:\t\t\t",
	eyefile.FieldRecording:    "  recording:\t\t",
}

// Text renders the set fields of rec in the legacy layout. Every line except
// the recording line ends with a newline.
func Text(rec *eyefile.Record) string {
	var b strings.Builder
	for _, f := range eyefile.AllFields() {
		value := rec.Get(f)
		if value == "" {
			continue
		}
		b.WriteString(textLabels[f])
		b.WriteString(value)
		if f != eyefile.FieldRecording {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteText writes "<path>:" followed by Text and a final newline.
func WriteText(w io.Writer, rec *eyefile.Record) error {
	_, err := fmt.Fprintf(w, "%s:\n%s\n", rec.Path(), Text(rec))
	return err
}
