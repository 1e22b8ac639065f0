// Package compiler turns a tree of author-written markdown course files into a
// validated content model. It is pure: input is a map of virtual paths to raw
// text, output is entities plus findings. It never reads the filesystem or the
// network, and it never stops at the first problem.
package compiler

// Severity ranks a finding. Errors block the owning entity from being served;
// warnings are surfaced to authors but leave the entity valid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError is one finding, stable-shaped for downstream tooling/CI.
type ValidationError struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Severity   Severity `json:"severity"`
}

// EntityKind tags the top-level parsed unit of one file.
type EntityKind string

const (
	KindModule          EntityKind = "module"
	KindCourse          EntityKind = "course"
	KindLearningOutcome EntityKind = "learning-outcome"
	KindLens            EntityKind = "lens"
	KindArticle         EntityKind = "article"
	KindVideo           EntityKind = "video"
)

// SectionType tags a typed block introduced by a header at the entity's
// section depth.
type SectionType string

const (
	SectionPage          SectionType = "Page"
	SectionLensArticle   SectionType = "Lens-article"
	SectionLensVideo     SectionType = "Lens-video"
	SectionTest          SectionType = "Test"
	SectionLens          SectionType = "Lens"
	SectionUncategorized SectionType = "Uncategorized"
)

// SegmentType tags a leaf block one level below a section.
type SegmentType string

const (
	SegmentText           SegmentType = "Text"
	SegmentChat           SegmentType = "Chat"
	SegmentArticleExcerpt SegmentType = "Article-excerpt"
	SegmentVideoExcerpt   SegmentType = "Video-excerpt"
	SegmentTestQuestion   SegmentType = "Test-question"
	SegmentAnswerBox      SegmentType = "Answer-box"
)

// WikiLink is a [[path]] or [[path|label]] reference found inside a field
// value, tagged at extraction time so the resolver never re-scans text.
type WikiLink struct {
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Line   int    `json:"line"`
}

// Field is one extracted key:: value pair.
type Field struct {
	Key   string     `json:"key"`
	Value string     `json:"value"`
	Line  int        `json:"line"`
	Links []WikiLink `json:"links,omitempty"`
}

// Segment is a typed leaf block.
type Segment struct {
	Type   SegmentType      `json:"type"`
	Line   int              `json:"line"`
	Fields map[string]Field `json:"fields"`
}

// Section is a typed block holding fields, untouched body text, and segments.
type Section struct {
	Type     SectionType      `json:"type"`
	Title    string           `json:"title"`
	Line     int              `json:"line"`
	Fields   map[string]Field `json:"fields"`
	Body     string           `json:"-"`
	Segments []Segment        `json:"segments"`
}

// Entity is the parsed unit of one corpus file. A returned Entity carries zero
// structural errors; files that fail top-level parsing yield nil plus errors.
type Entity struct {
	Kind     EntityKind        `json:"kind"`
	Path     string            `json:"path"`
	Slug     string            `json:"slug,omitempty"`
	Title    string            `json:"title"`
	Meta     map[string]string `json:"meta,omitempty"`
	Fields   map[string]Field  `json:"fields,omitempty"`
	Sections []Section         `json:"sections,omitempty"`
}

// Result is the whole-corpus output.
type Result struct {
	Entities []Entity          `json:"entities"`
	Errors   []ValidationError `json:"errors"`
}

// FileResult is the single-file output of the per-kind entry points.
type FileResult struct {
	Entity *Entity           `json:"entity"`
	Errors []ValidationError `json:"errors"`
}
