package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Per-kind frontmatter dictionaries. slugKey is the identifier key validated
// with the slug format rules; lenses are addressed by path and carry none.
type kindSpec struct {
	slugKey  string
	metaKeys []string
}

var kindSpecs = map[EntityKind]kindSpec{
	KindModule:          {slugKey: "slug", metaKeys: []string{"slug", "title", "type"}},
	KindCourse:          {slugKey: "slug", metaKeys: []string{"slug", "title", "type"}},
	KindLearningOutcome: {slugKey: "id", metaKeys: []string{"id", "title", "type"}},
	KindLens:            {metaKeys: []string{"title", "type"}},
}

// ValidateModule validates a single module file's structure and fields,
// without cross-file reference resolution. file is the virtual path used for
// error attribution.
func ValidateModule(file, text string) FileResult {
	return validateSingle(file, text, KindModule)
}

// ValidateCourse is the single-file entry point for course files.
func ValidateCourse(file, text string) FileResult {
	return validateSingle(file, text, KindCourse)
}

// ValidateLearningOutcome is the single-file entry point for learning-outcome
// files.
func ValidateLearningOutcome(file, text string) FileResult {
	return validateSingle(file, text, KindLearningOutcome)
}

// ValidateLens is the single-file entry point for lens files.
func ValidateLens(file, text string) FileResult {
	return validateSingle(file, text, KindLens)
}

func validateSingle(file, text string, kind EntityKind) FileResult {
	entity, errs := parseEntity(file, text, kind)
	return FileResult{Entity: entity, Errors: errs}
}

// parseEntity runs the per-file stages: frontmatter, setext guard, top-level
// field checks, then kind-specific body parsing. It never stops at the first
// problem; a nil entity means the file failed at the top level and is not
// partially valid.
func parseEntity(file, text string, kind EntityKind) (*Entity, []ValidationError) {
	fm, errs := parseFrontmatter(file, text)
	if fm == nil {
		return nil, errs
	}
	errs = append(errs, checkSetextHeaders(file, text, fm)...)

	spec := kindSpecs[kind]
	topValid := true

	title := fm.get("title")
	if _, declared := fm.lines["title"]; !declared {
		errs = append(errs, ValidationError{
			File:     file,
			Line:     fm.openLine,
			Message:  "missing required frontmatter key \"title\"",
			Severity: SeverityError,
		})
		topValid = false
	} else if strings.TrimSpace(title) == "" {
		errs = append(errs, ValidationError{
			File:     file,
			Line:     fm.lineOf("title"),
			Message:  "frontmatter key \"title\" is empty",
			Severity: SeverityError,
		})
		topValid = false
	}

	slug := ""
	if spec.slugKey != "" {
		slug = fm.get(spec.slugKey)
		if _, declared := fm.lines[spec.slugKey]; !declared {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     fm.openLine,
				Message:  fmt.Sprintf("missing required frontmatter key %q", spec.slugKey),
				Severity: SeverityError,
			})
			topValid = false
		} else if slugErrs := validateSlug(file, fm.lineOf(spec.slugKey), spec.slugKey, slug); len(slugErrs) > 0 {
			errs = append(errs, slugErrs...)
			topValid = false
		}
	}

	errs = append(errs, checkMetaKeys(file, fm, spec.metaKeys)...)

	entity := &Entity{
		Kind:  kind,
		Path:  file,
		Slug:  slug,
		Title: strings.TrimSpace(title),
		Meta:  fm.values,
	}

	switch kind {
	case KindModule:
		errs = append(errs, parseSectionedBody(file, fm, entity, 1, 2, moduleSectionTypes)...)
	case KindLearningOutcome:
		errs = append(errs, parseSectionedBody(file, fm, entity, 2, 3, outcomeSectionTypes)...)
	case KindCourse:
		errs = append(errs, parseCourseBody(file, fm, entity)...)
	case KindLens:
		errs = append(errs, parseLensBody(file, fm, entity)...)
	}

	// Findings are reported in top-to-bottom file order regardless of which
	// stage discovered them; the stable sort keeps stage order on ties.
	errs = sortByLine(errs)
	if !topValid {
		return nil, errs
	}
	return entity, errs
}

// checkMetaKeys warns on unrecognized frontmatter keys with a nearest-match
// suggestion from the kind's allowed set.
func checkMetaKeys(file string, fm *frontmatter, allowed []string) []ValidationError {
	allowedSet := map[string]bool{}
	for _, k := range allowed {
		allowedSet[k] = true
	}
	var errs []ValidationError
	for key, line := range fm.lines {
		if allowedSet[key] {
			continue
		}
		errs = append(errs, ValidationError{
			File:       file,
			Line:       line,
			Message:    fmt.Sprintf("unknown frontmatter key %q; it will be ignored", key),
			Suggestion: suggestName(key, allowed),
			Severity:   SeverityWarning,
		})
	}
	return sortByLine(errs)
}

// sortByLine stabilizes findings that were produced from map iteration.
func sortByLine(errs []ValidationError) []ValidationError {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	return errs
}

// parseSectionedBody splits the body into typed sections at secDepth and their
// segments at segDepth. Unknown header text at a structurally-expected depth
// is never dropped silently; it becomes an error with the nearest-match
// section name attached.
func parseSectionedBody(file string, fm *frontmatter, entity *Entity, secDepth, segDepth int, sectionTypes []SectionType) []ValidationError {
	var errs []ValidationError
	preamble, blocks := segmentBlocks(fm.body, fm.bodyStart, secDepth)

	if strings.TrimSpace(preamble.body) != "" {
		entity.Sections = append(entity.Sections, Section{
			Type: SectionUncategorized,
			Line: preamble.line,
			Body: preamble.body,
		})
	}

	names := make([]string, len(sectionTypes))
	for i, t := range sectionTypes {
		names[i] = string(t)
	}

	for _, blk := range blocks {
		secType, known := matchSectionType(blk.header, sectionTypes)
		if !known {
			errs = append(errs, ValidationError{
				File:       file,
				Line:       blk.line,
				Message:    fmt.Sprintf("unknown section type %q", blk.header),
				Suggestion: suggestName(blk.header, names),
				Severity:   SeverityError,
			})
			continue
		}
		section, secErrs := parseSection(file, blk, secType, segDepth)
		errs = append(errs, secErrs...)
		entity.Sections = append(entity.Sections, section)
	}
	return errs
}

func matchSectionType(header string, types []SectionType) (SectionType, bool) {
	for _, t := range types {
		if header == string(t) {
			return t, true
		}
	}
	return "", false
}

// parseSection extracts section-level fields from the text before the first
// segment header, then parses and validates each segment. The untouched block
// body is kept on the section for child consumers.
func parseSection(file string, blk rawBlock, secType SectionType, segDepth int) (Section, []ValidationError) {
	section := Section{
		Type:  secType,
		Title: blk.header,
		Line:  blk.line,
		Body:  blk.body,
	}
	var errs []ValidationError

	pre, segBlocks := segmentBlocks(blk.body, blk.bodyLine, segDepth)
	fs, fieldErrs := extractFields(file, pre.body, pre.bodyLine)
	errs = append(errs, fieldErrs...)
	section.Fields = fs.fields
	// A section carries its contract either directly as fields (the flat
	// learning-outcome shape) or through typed segments. Required fields
	// apply only when no segments are present; the unknown-key check always
	// runs, so a field stranded above its segment header is never silent.
	spec := sectionSpecs[secType]
	if len(segBlocks) > 0 {
		spec.required = nil
	}
	errs = append(errs, validateFieldSet(file, blk.line, fmt.Sprintf("%s section", secType), "", fs, spec)...)

	allowed := segmentsAllowed[secType]
	allowedNames := make([]string, len(allowed))
	for i, t := range allowed {
		allowedNames[i] = string(t)
	}

	for _, sb := range segBlocks {
		segType := SegmentType(sb.header)
		spec, known := segmentSpecs[segType]
		if !known {
			errs = append(errs, ValidationError{
				File:       file,
				Line:       sb.line,
				Message:    fmt.Sprintf("unknown segment type %q", sb.header),
				Suggestion: suggestName(sb.header, allowedNames),
				Severity:   SeverityError,
			})
			continue
		}
		if !segmentTypeAllowed(secType, segType) {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     sb.line,
				Message:  fmt.Sprintf("segment type %q is not allowed in a %s section", sb.header, secType),
				Severity: SeverityError,
			})
			continue
		}
		segFields, segFieldErrs := extractFields(file, sb.body, sb.bodyLine)
		errs = append(errs, segFieldErrs...)
		errs = append(errs, validateFieldSet(file, sb.line, fmt.Sprintf("%s segment", segType), segType, segFields, spec)...)
		section.Segments = append(section.Segments, Segment{
			Type:   segType,
			Line:   sb.line,
			Fields: segFields.fields,
		})
	}
	return section, errs
}

var courseSpec = fieldSpec{
	valid:    []string{"modules", "description"},
	required: []string{"modules"},
}

// parseCourseBody extracts the course's body fields; a course is an ordered
// list of module references plus an optional description.
func parseCourseBody(file string, fm *frontmatter, entity *Entity) []ValidationError {
	fs, errs := extractFields(file, fm.body, fm.bodyStart)
	entity.Fields = fs.fields
	errs = append(errs, validateFieldSet(file, fm.bodyStart, "course file", "", fs, courseSpec)...)
	return errs
}

var lensSpec = fieldSpec{
	valid:    []string{"source", "author"},
	required: []string{"source"},
}

// parseLensBody validates the lens frontmatter 'type' and extracts the source
// reference fields.
func parseLensBody(file string, fm *frontmatter, entity *Entity) []ValidationError {
	var errs []ValidationError
	lensType := strings.ToLower(fm.get("type"))
	if _, declared := fm.lines["type"]; !declared {
		errs = append(errs, ValidationError{
			File:     file,
			Line:     fm.openLine,
			Message:  "missing required frontmatter key \"type\"",
			Severity: SeverityError,
		})
	} else if lensType != "article" && lensType != "video" {
		errs = append(errs, ValidationError{
			File:     file,
			Line:     fm.lineOf("type"),
			Message:  fmt.Sprintf("lens type must be \"article\" or \"video\", got %q", fm.get("type")),
			Severity: SeverityError,
		})
	}

	fs, fieldErrs := extractFields(file, fm.body, fm.bodyStart)
	errs = append(errs, fieldErrs...)
	entity.Fields = fs.fields
	errs = append(errs, validateFieldSet(file, fm.bodyStart, "lens file", "", fs, lensSpec)...)
	return errs
}
