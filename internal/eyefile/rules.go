package eyefile

import (
	"regexp"
	"strings"
)

// MatchMode selects how a rule list is applied to a single line.
type MatchMode int

const (
	// FirstMatch stops at the first rule that matches; at most one field is set.
	FirstMatch MatchMode = iota
	// AllMatches tries every rule and lets each match set its field.
	AllMatches
)

func (m MatchMode) String() string {
	if m == AllMatches {
		return "all-matches"
	}
	return "first-match"
}

// Rule extracts one field from a line.
type Rule struct {
	Field Field
	// Keyword is the literal discriminator that must appear in the line.
	Keyword string
	Phase   Phase
	pattern *regexp.Regexp
}

// Match returns the captured value when line satisfies the rule.
func (r Rule) Match(line string) (string, bool) {
	if r.pattern == nil || !strings.Contains(line, r.Keyword) {
		return "", false
	}
	groups := r.pattern.FindStringSubmatch(line)
	if groups == nil {
		return "", false
	}
	return groups[len(groups)-1], true
}

// preambleRule matches "KEYWORD: value" with an optional "** " comment marker.
func preambleRule(f Field, keyword string) Rule {
	return Rule{
		Field:   f,
		Keyword: keyword,
		Phase:   PhasePreamble,
		pattern: regexp.MustCompile(`^(?:\*\* )?` + regexp.QuoteMeta(keyword) + `: (.*)`),
	}
}

// messageRule matches "MSG <timestamp> KEYWORD:value".
func messageRule(f Field, keyword string) Rule {
	return Rule{
		Field:   f,
		Keyword: keyword,
		Phase:   PhaseMessage,
		pattern: regexp.MustCompile(`^MSG\s+\d+\s+` + regexp.QuoteMeta(keyword) + `:(.*)`),
	}
}

var preambleRules = []Rule{
	preambleRule(FieldDate, "DATE"),
	preambleRule(FieldType, "TYPE"),
	preambleRule(FieldVersion, "VERSION"),
	preambleRule(FieldSource, "SOURCE"),
	// The device line carries no colon; the whole "EYELINK ..." text is the value.
	{
		Field:   FieldEyelink,
		Keyword: "EYELINK ",
		Phase:   PhasePreamble,
		pattern: regexp.MustCompile(`^(?:\*\* )?(EYELINK .*)`),
	},
	preambleRule(FieldCamera, "CAMERA"),
	preambleRule(FieldSerialNumber, "SERIAL NUMBER"),
	preambleRule(FieldCameraConfig, "CAMERA_CONFIG"),
	preambleRule(FieldRecordedBy, "RECORDED BY"),
	preambleRule(FieldExperiment, "EXPERIMENT"),
	preambleRule(FieldResearcher, "RESEARCHER"),
	preambleRule(FieldParticipant, "PARTICIPANT"),
	preambleRule(FieldSession, "SESSION"),
	preambleRule(FieldList, "LIST"),
	preambleRule(FieldRecording, "RECORDING"),
}

// KeywordRecordedBy is the message keyword whose target field is configurable.
const KeywordRecordedBy = "RECORDED BY"

// PreambleRules returns the header rules in priority order.
func PreambleRules() []Rule {
	return append([]Rule(nil), preambleRules...)
}

// MessageRules returns the MSG rules. recordedBy selects the field populated
// by "RECORDED BY:" messages; historically that is FieldRecording.
func MessageRules(recordedBy Field) []Rule {
	return []Rule{
		messageRule(recordedBy, KeywordRecordedBy),
		messageRule(FieldExperiment, "EXPERIMENT"),
		messageRule(FieldResearcher, "RESEARCHER"),
		messageRule(FieldParticipant, "PARTICIPANT"),
		messageRule(FieldSession, "SESSION"),
		messageRule(FieldList, "LIST"),
		messageRule(FieldRecording, "RECORDING"),
	}
}

// Apply runs rules against line in the given mode, storing captured values in
// rec with unconditional overwrite. It returns the rules that set a field.
func Apply(line string, rules []Rule, mode MatchMode, rec *Record) []Rule {
	var matched []Rule
	for _, rule := range rules {
		value, ok := rule.Match(line)
		if !ok {
			continue
		}
		if rec.set(rule.Field, value, rule.Phase) {
			matched = append(matched, rule)
		}
		if mode == FirstMatch {
			break
		}
	}
	return matched
}
