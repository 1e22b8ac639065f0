package compiler

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// linkRef is one wiki-link with its resolution context: the kinds of file the
// referencing field is expected to point at.
type linkRef struct {
	link WikiLink
	want []EntityKind
}

var kindDirs = map[EntityKind]string{
	KindModule:          "Modules",
	KindCourse:          "Courses",
	KindLearningOutcome: "Learning Outcomes",
	KindLens:            "Lenses",
	KindArticle:         "Articles",
	KindVideo:           "Videos",
}

// resolveReferences checks every wiki-link-tagged field value of an entity
// against the corpus registry. References must be corpus-relative paths
// (bare filenames are ambiguous across a multi-directory corpus and are
// rejected outright), resolve relative to the referencing file's directory,
// and exist in the registry; unresolved links carry the suggestion engine's
// best correction when one clears the threshold.
func resolveReferences(reg *Registry, e *Entity) []ValidationError {
	refs := collectRefs(e)
	fromDir := path.Dir(e.Path)
	if fromDir == "." {
		fromDir = ""
	}

	var errs []ValidationError
	for _, ref := range refs {
		target := ref.link.Target
		if !strings.Contains(target, "/") {
			errs = append(errs, ValidationError{
				File:     e.Path,
				Line:     ref.link.Line,
				Message:  fmt.Sprintf("reference %q must be a corpus-relative path (for example %q), not a bare filename", target, exampleRef(ref.want, target)),
				Severity: SeverityError,
			})
			continue
		}
		resolved := path.Join(fromDir, target)
		if resolved == ".." || strings.HasPrefix(resolved, "../") {
			errs = append(errs, ValidationError{
				File:     e.Path,
				Line:     ref.link.Line,
				Message:  fmt.Sprintf("reference %q resolves outside the corpus root", target),
				Severity: SeverityError,
			})
			continue
		}
		if reg.Has(resolved) || reg.Has(resolved+".md") {
			continue
		}
		errs = append(errs, ValidationError{
			File:       e.Path,
			Line:       ref.link.Line,
			Message:    fmt.Sprintf("linked file not found: %q", target),
			Suggestion: bestPathSuggestion(reg, fromDir, target, ref.want),
			Severity:   SeverityError,
		})
	}
	return errs
}

func exampleRef(want []EntityKind, target string) string {
	dir := "Lenses"
	if len(want) > 0 {
		if d, ok := kindDirs[want[0]]; ok {
			dir = d
		}
	}
	return "../" + dir + "/" + target
}

func bestPathSuggestion(reg *Registry, fromDir, target string, want []EntityKind) string {
	if len(want) == 0 {
		want = []EntityKind{KindModule, KindCourse, KindLearningOutcome, KindLens, KindArticle, KindVideo}
	}
	for _, k := range want {
		if s := suggestPath(reg, fromDir, target, k); s != "" {
			return s
		}
	}
	return ""
}

// collectRefs gathers the tagged wiki-links of an entity in top-to-bottom
// discovery order, each with its expected target kind inferred from the
// referencing field.
func collectRefs(e *Entity) []linkRef {
	var refs []linkRef
	add := func(f Field, want []EntityKind) {
		for _, l := range f.Links {
			refs = append(refs, linkRef{link: l, want: want})
		}
	}

	for _, f := range sortedFields(e.Fields) {
		add(f, entityFieldKinds(e, f.Key))
	}
	for _, sec := range e.Sections {
		for _, f := range sortedFields(sec.Fields) {
			add(f, sectionFieldKinds(sec.Type, f.Key))
		}
		for _, seg := range sec.Segments {
			for _, f := range sortedFields(seg.Fields) {
				add(f, segmentFieldKinds(seg.Type, f.Key))
			}
		}
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].link.Line < refs[j].link.Line })
	return refs
}

func sortedFields(fields map[string]Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func entityFieldKinds(e *Entity, key string) []EntityKind {
	switch {
	case e.Kind == KindCourse && key == "modules":
		return []EntityKind{KindModule}
	case e.Kind == KindLens && key == "source":
		switch strings.ToLower(e.Meta["type"]) {
		case "article":
			return []EntityKind{KindArticle}
		case "video":
			return []EntityKind{KindVideo}
		default:
			return []EntityKind{KindArticle, KindVideo}
		}
	default:
		return nil
	}
}

func sectionFieldKinds(sec SectionType, key string) []EntityKind {
	if sec == SectionLens && key == "source" {
		return []EntityKind{KindLens}
	}
	return nil
}

func segmentFieldKinds(seg SegmentType, key string) []EntityKind {
	switch {
	case seg == SegmentArticleExcerpt && key == "source":
		return []EntityKind{KindArticle}
	case seg == SegmentVideoExcerpt && key == "source":
		return []EntityKind{KindVideo}
	default:
		return nil
	}
}
