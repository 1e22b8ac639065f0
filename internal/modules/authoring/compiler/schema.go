package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Static type dictionaries. The source of truth for which fields each block
// type may carry, resolved once at init; no reflection, no runtime lookups.

type fieldSpec struct {
	valid    []string
	required []string
	bools    []string
}

var segmentSpecs = map[SegmentType]fieldSpec{
	SegmentText: {
		valid:    []string{"content", "hidePreviousContentFromUser", "hidePreviousContentFromTutor"},
		required: []string{"content"},
		bools:    []string{"hidePreviousContentFromUser", "hidePreviousContentFromTutor"},
	},
	SegmentChat: {
		valid:    []string{"instructions", "hidePreviousContentFromUser", "hidePreviousContentFromTutor"},
		required: []string{"instructions"},
		bools:    []string{"hidePreviousContentFromUser", "hidePreviousContentFromTutor"},
	},
	SegmentArticleExcerpt: {
		valid:    []string{"source", "from", "to"},
		required: []string{"source"},
	},
	SegmentVideoExcerpt: {
		valid:    []string{"source", "from", "to"},
		required: []string{"source"},
	},
	SegmentTestQuestion: {
		valid:    []string{"question", "expectedAnswer"},
		required: []string{"question"},
	},
	SegmentAnswerBox: {
		valid: []string{"placeholder"},
	},
}

var sectionSpecs = map[SectionType]fieldSpec{
	SectionLens: {
		valid:    []string{"source", "instructions"},
		required: []string{"source"},
	},
	SectionTest: {
		valid:    []string{"question", "expectedAnswer"},
		required: []string{"question"},
	},
}

// segmentsAllowed lists the legal segment types inside each section type.
var segmentsAllowed = map[SectionType][]SegmentType{
	SectionPage:        {SegmentText, SegmentChat},
	SectionLensArticle: {SegmentText, SegmentChat, SegmentArticleExcerpt},
	SectionLensVideo:   {SegmentText, SegmentChat, SegmentVideoExcerpt},
	SectionTest:        {SegmentTestQuestion, SegmentAnswerBox, SegmentText},
}

var moduleSectionTypes = []SectionType{SectionPage, SectionLensArticle, SectionLensVideo, SectionTest}
var outcomeSectionTypes = []SectionType{SectionLens, SectionTest}

// fieldOwners maps every known segment field to the segment types that accept
// it, for the "wrong segment type" warning. Built once from segmentSpecs.
var fieldOwners = buildFieldOwners()

func buildFieldOwners() map[string][]SegmentType {
	owners := map[string][]SegmentType{}
	types := make([]SegmentType, 0, len(segmentSpecs))
	for t := range segmentSpecs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		for _, f := range segmentSpecs[t].valid {
			owners[f] = append(owners[f], t)
		}
	}
	return owners
}

// validateSlug applies the identifier format rules. Each failure mode has its
// own message so authors know exactly what to fix: empty, uppercase, hyphen
// placement, and invalid characters are reported distinctly.
func validateSlug(file string, line int, name, value string) []ValidationError {
	fail := func(msg string) []ValidationError {
		return []ValidationError{{File: file, Line: line, Message: msg, Severity: SeverityError}}
	}
	if strings.TrimSpace(value) == "" {
		return fail(fmt.Sprintf("%s is empty", name))
	}
	if value != strings.ToLower(value) {
		return fail(fmt.Sprintf("%s %q must be lowercase", name, value))
	}
	if strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") {
		return fail(fmt.Sprintf("%s %q must not start or end with a hyphen", name, value))
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return fail(fmt.Sprintf("%s %q may only contain lowercase letters, digits, and hyphens", name, value))
		}
	}
	return nil
}

// validateFieldSet checks one block's extracted fields against its spec:
// required fields present and non-blank, unknown keys flagged (with a sibling
// segment-type warning when the field clearly belongs elsewhere), boolean
// values parseable.
func validateFieldSet(file string, blockLine int, label string, ownType SegmentType, fs *fieldSet, spec fieldSpec) []ValidationError {
	var errs []ValidationError

	for _, req := range spec.required {
		f, ok := fs.get(req)
		if !ok {
			msg := fmt.Sprintf("missing required field %q on %s", req, label)
			if scLine, single := fs.singleColon[req]; single {
				errs = append(errs, ValidationError{
					File:     file,
					Line:     scLine,
					Message:  fmt.Sprintf("field %q uses a single colon; fields are written %q with a double colon", req, req+":: value"),
					Severity: SeverityError,
				})
				continue
			}
			errs = append(errs, ValidationError{File: file, Line: blockLine, Message: msg, Severity: SeverityError})
			continue
		}
		if strings.TrimSpace(f.Value) == "" {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     f.Line,
				Message:  fmt.Sprintf("required field %q on %s is empty", req, label),
				Severity: SeverityError,
			})
		}
	}

	validSet := map[string]bool{}
	for _, v := range spec.valid {
		validSet[v] = true
	}
	for _, key := range fs.order {
		if validSet[key] {
			continue
		}
		f := fs.fields[key]
		if owners := siblingOwners(key, ownType); len(owners) > 0 {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     f.Line,
				Message:  fmt.Sprintf("field %q belongs to %s segments, not %s", key, joinSegmentTypes(owners), label),
				Severity: SeverityWarning,
			})
			continue
		}
		errs = append(errs, ValidationError{
			File:       file,
			Line:       f.Line,
			Message:    fmt.Sprintf("unknown field %q on %s; it will be ignored", key, label),
			Suggestion: suggestName(key, spec.valid),
			Severity:   SeverityWarning,
		})
	}

	for _, b := range spec.bools {
		f, ok := fs.get(b)
		if !ok {
			continue
		}
		if _, valid := parseBool(f.Value); !valid {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     f.Line,
				Message:  fmt.Sprintf("field %q must be \"true\" or \"false\", got %q", b, f.Value),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// siblingOwners returns the segment types (other than ownType) whose valid
// field set contains key. ownType may be empty for section-level checks.
func siblingOwners(key string, ownType SegmentType) []SegmentType {
	var out []SegmentType
	for _, t := range fieldOwners[key] {
		if t != ownType {
			out = append(out, t)
		}
	}
	return out
}

func joinSegmentTypes(types []SegmentType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, " or ")
}

// parseBool parses case-insensitively. Absent optional booleans default to
// false at the call sites; this never infers true from anything but "true".
func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func segmentTypeAllowed(sec SectionType, seg SegmentType) bool {
	for _, t := range segmentsAllowed[sec] {
		if t == seg {
			return true
		}
	}
	return false
}
