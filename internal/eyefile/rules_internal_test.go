package eyefile

import "testing"

func TestApplyMatchModes(t *testing.T) {
	rules := []Rule{
		preambleRule(FieldExperiment, "EXP"),
		preambleRule(FieldList, "EXP"),
	}

	first := NewRecord("x.asc", KindText)
	matched := Apply("** EXP: v1", rules, FirstMatch, first)
	if len(matched) != 1 || first.Get(FieldExperiment) != "v1" || first.Get(FieldList) != "" {
		t.Fatalf("first-match should set only the first field: %v", first.Fields())
	}

	all := NewRecord("x.asc", KindText)
	matched = Apply("** EXP: v1", rules, AllMatches, all)
	if len(matched) != 2 || all.Get(FieldExperiment) != "v1" || all.Get(FieldList) != "v1" {
		t.Fatalf("all-matches should set both fields: %v", all.Fields())
	}
}

func TestFirstMatchConsumesLineEvenWhenValueEmpty(t *testing.T) {
	rules := []Rule{
		preambleRule(FieldExperiment, "EXP"),
		preambleRule(FieldList, "EXP"),
	}
	rec := NewRecord("x.asc", KindText)
	Apply("EXP: ", rules, FirstMatch, rec)
	if rec.Get(FieldExperiment) != "" || rec.Get(FieldList) != "" {
		t.Fatalf("empty match should consume the line without setting fields: %v", rec.Fields())
	}
}

func TestMatchModeString(t *testing.T) {
	if FirstMatch.String() != "first-match" || AllMatches.String() != "all-matches" {
		t.Fatalf("unexpected names %s %s", FirstMatch, AllMatches)
	}
}

func TestPreambleRulePriority(t *testing.T) {
	cases := []struct {
		line  string
		field Field
		value string
	}{
		{"** DATE: Tue Feb  6 11:02:03 2024", FieldDate, "Tue Feb  6 11:02:03 2024"},
		{"DATE: no marker", FieldDate, "no marker"},
		{"** VERSION: EYELINK II 1", FieldVersion, "EYELINK II 1"},
		{"** SOURCE: EYELINK CL", FieldSource, "EYELINK CL"},
		{"** EYELINK 1000 Plus", FieldEyelink, "EYELINK 1000 Plus"},
		{"** CAMERA_CONFIG: DAB50200.SCD", FieldCameraConfig, "DAB50200.SCD"},
		{"** CAMERA: EyeLink USBCAM", FieldCamera, "EyeLink USBCAM"},
		{"** SERIAL NUMBER: CLU-1", FieldSerialNumber, "CLU-1"},
		{"** RECORDED BY: Zep-2", FieldRecordedBy, "Zep-2"},
		{"** RECORDING: rec 1 ", FieldRecording, "rec 1 "},
	}
	for _, tc := range cases {
		rec := NewRecord("x.edf", KindBinary)
		matched := Apply(tc.line, preambleRules, FirstMatch, rec)
		if len(matched) != 1 || matched[0].Field != tc.field {
			t.Fatalf("%q matched %v, want %s", tc.line, matched, tc.field)
		}
		if got := rec.Get(tc.field); got != tc.value {
			t.Fatalf("%q: %s = %q, want %q", tc.line, tc.field, got, tc.value)
		}
	}
}

func TestPreambleRulesIgnoreUnrelatedLines(t *testing.T) {
	for _, line := range []string{
		"**",
		"** CONVERTED FROM x.edf using edfapi",
		"*** DATE: triple star",
		" ** DATE: leading space",
		"** DATE:missing space",
		"PRESCALER\t1",
	} {
		rec := NewRecord("x.edf", KindBinary)
		if matched := Apply(line, preambleRules, FirstMatch, rec); len(matched) != 0 {
			t.Fatalf("%q unexpectedly matched %v", line, matched)
		}
	}
}

func TestMessageRules(t *testing.T) {
	rules := MessageRules(FieldRecordedBy)
	cases := []struct {
		line  string
		field Field
		value string
	}{
		{"MSG 12345 EXPERIMENT:DemoExp", FieldExperiment, "DemoExp"},
		{"MSG\t9  PARTICIPANT: pp 01", FieldParticipant, " pp 01"},
		{"MSG 1 RECORDED BY:lab", FieldRecordedBy, "lab"},
		{"MSG 2 LIST:B", FieldList, "B"},
	}
	for _, tc := range cases {
		rec := NewRecord("x.asc", KindText)
		Apply(tc.line, rules, AllMatches, rec)
		if got := rec.Get(tc.field); got != tc.value {
			t.Fatalf("%q: %s = %q, want %q", tc.line, tc.field, got, tc.value)
		}
		if rec.Origin(tc.field) != PhaseMessage {
			t.Fatalf("%q: origin %s", tc.line, rec.Origin(tc.field))
		}
	}

	for _, line := range []string{
		"MSG EXPERIMENT:no-timestamp",
		"MSG 12 -4 EXPERIMENT:offset",
		"MSG 12 EXPERIMENT :space",
		"INPUT 12 EXPERIMENT:x",
	} {
		rec := NewRecord("x.asc", KindText)
		if matched := Apply(line, rules, AllMatches, rec); len(matched) != 0 {
			t.Fatalf("%q unexpectedly matched", line)
		}
	}
}

func TestRecordSetNeverClears(t *testing.T) {
	rec := NewRecord("x.asc", KindText)
	rec.set(FieldSession, "1", PhasePreamble)
	if rec.set(FieldSession, "", PhaseMessage) {
		t.Fatal("empty value should not be stored")
	}
	if rec.Get(FieldSession) != "1" || rec.Origin(FieldSession) != PhasePreamble {
		t.Fatalf("session cleared: %q", rec.Get(FieldSession))
	}
}
