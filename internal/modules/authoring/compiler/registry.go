package compiler

import (
	"sort"
	"strings"
)

// Registry is the immutable corpus-wide mapping from virtual path to raw text.
// It is built once per compilation run before any reference resolution and is
// never mutated afterwards, which is what makes per-file validation safe to
// run concurrently.
type Registry struct {
	files  map[string]string
	kinds  map[string]EntityKind
	byKind map[EntityKind][]string
	paths  []string
}

// NewRegistry snapshots a corpus map. Entity kind per file is inferred from
// its top-level directory, cross-checked against the frontmatter 'type:' key
// when one is present; a file whose directory and declared type disagree is
// excluded from kind-filtered candidate lists.
func NewRegistry(corpus map[string]string) *Registry {
	r := &Registry{
		files:  make(map[string]string, len(corpus)),
		kinds:  make(map[string]EntityKind, len(corpus)),
		byKind: map[EntityKind][]string{},
	}
	for p, text := range corpus {
		p = strings.TrimPrefix(strings.TrimSpace(p), "/")
		r.files[p] = text
		r.paths = append(r.paths, p)
		r.kinds[p] = classify(p, text)
	}
	sort.Strings(r.paths)
	for _, p := range r.paths {
		if k := r.kinds[p]; k != "" {
			r.byKind[k] = append(r.byKind[k], p)
		}
	}
	return r
}

// Has reports whether the exact virtual path exists in the corpus.
func (r *Registry) Has(path string) bool {
	_, ok := r.files[path]
	return ok
}

// Text returns the raw content of a corpus file.
func (r *Registry) Text(path string) (string, bool) {
	text, ok := r.files[path]
	return text, ok
}

// Paths returns all corpus paths in sorted order.
func (r *Registry) Paths() []string {
	return r.paths
}

// Kind returns the inferred entity kind of a corpus file.
func (r *Registry) Kind(path string) EntityKind {
	return r.kinds[path]
}

// PathsByKind returns the sorted paths of all files of one kind.
func (r *Registry) PathsByKind(kind EntityKind) []string {
	return r.byKind[kind]
}

var dirKinds = map[string]EntityKind{
	"Modules":           KindModule,
	"Courses":           KindCourse,
	"Learning Outcomes": KindLearningOutcome,
	"Lenses":            KindLens,
	"Articles":          KindArticle,
	"Videos":            KindVideo,
}

var typeKinds = map[string]EntityKind{
	"module":           KindModule,
	"course":           KindCourse,
	"learning-outcome": KindLearningOutcome,
	"lens":             KindLens,
	"article":          KindArticle,
	"video":            KindVideo,
}

// dirKindOf infers kind from the top-level directory alone.
func dirKindOf(path string) EntityKind {
	if dir, _, ok := strings.Cut(path, "/"); ok {
		return dirKinds[dir]
	}
	return ""
}

func classify(path, text string) EntityKind {
	var dirKind EntityKind
	if dir, _, ok := strings.Cut(path, "/"); ok {
		dirKind = dirKinds[dir]
	}
	fmKind := typeKinds[peekFrontmatterType(text)]
	// On a lens the 'type' key names the wrapped medium (article or video),
	// not the entity kind, so it never counts against the directory.
	if dirKind == KindLens && (fmKind == KindArticle || fmKind == KindVideo) {
		return dirKind
	}
	switch {
	case dirKind != "" && fmKind != "" && dirKind != fmKind:
		return ""
	case dirKind != "":
		return dirKind
	default:
		return fmKind
	}
}

// peekFrontmatterType reads just the 'type:' metadata key without running the
// full frontmatter reader; classification must not depend on the file being
// otherwise well-formed.
func peekFrontmatterType(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != frontmatterDelimiter {
		return ""
	}
	for _, raw := range lines[1:] {
		raw = strings.TrimRight(raw, " \t\r")
		if raw == frontmatterDelimiter {
			return ""
		}
		key, value, ok := strings.Cut(raw, ":")
		if ok && strings.TrimSpace(key) == "type" {
			return strings.ToLower(unquote(strings.TrimSpace(value)))
		}
	}
	return ""
}
