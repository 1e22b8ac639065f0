package compiler

import (
	"strings"
	"testing"
)

func lensEntity(path, source string) *Entity {
	return &Entity{
		Kind:  KindLens,
		Path:  path,
		Title: "A lens",
		Meta:  map[string]string{"title": "A lens", "type": "article"},
		Fields: map[string]Field{
			"source": {
				Key:   "source",
				Value: "[[" + source + "]]",
				Line:  5,
				Links: []WikiLink{{Target: source, Line: 5}},
			},
		},
	}
}

func TestResolveReferences_BareFilenameRejectedEvenWhenFileExists(t *testing.T) {
	reg := NewRegistry(map[string]string{
		"Articles/lens1.md": "raw",
		"Lenses/l.md":       "---\ntitle: x\ntype: article\n---\nsource:: [[lens1.md]]",
	})
	errs := resolveReferences(reg, lensEntity("Lenses/l.md", "lens1.md"))
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if !strings.Contains(errs[0].Message, "must be a corpus-relative path") {
		t.Fatalf("message = %q", errs[0].Message)
	}
	if !strings.Contains(errs[0].Message, `"../Articles/lens1.md"`) {
		t.Fatalf("example must use the expected directory: %q", errs[0].Message)
	}
	if errs[0].Severity != SeverityError || errs[0].Line != 5 {
		t.Fatalf("err = %+v", errs[0])
	}
}

func TestResolveReferences_ResolvesRelativeToOwnDirectory(t *testing.T) {
	reg := NewRegistry(map[string]string{
		"Articles/paper.md": "raw",
		"Lenses/l.md":       "x",
	})
	errs := resolveReferences(reg, lensEntity("Lenses/l.md", "../Articles/paper.md"))
	if len(errs) != 0 {
		t.Fatalf("errs = %+v", errs)
	}
	// Same link without the .md suffix also resolves.
	errs = resolveReferences(reg, lensEntity("Lenses/l.md", "../Articles/paper"))
	if len(errs) != 0 {
		t.Fatalf("suffixless reference failed: %+v", errs)
	}
}

func TestResolveReferences_EscapingCorpusRootIsError(t *testing.T) {
	reg := NewRegistry(map[string]string{"Lenses/l.md": "x"})
	errs := resolveReferences(reg, lensEntity("Lenses/l.md", "../../etc/passwd"))
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "outside the corpus root") {
		t.Fatalf("errs = %+v", errs)
	}
}

func TestResolveReferences_TypoGetsExactRelativeSuggestion(t *testing.T) {
	reg := NewRegistry(map[string]string{
		"Lenses/How can LLMs be understood as simulators.md": "---\ntitle: x\ntype: article\n---\nsource:: [[../Articles/a.md]]",
		"Learning Outcomes/lo1.md":                           "x",
	})
	e := &Entity{
		Kind:  KindLearningOutcome,
		Path:  "Learning Outcomes/lo1.md",
		Title: "LO 1",
		Sections: []Section{{
			Type: SectionLens,
			Line: 6,
			Fields: map[string]Field{
				"source": {
					Key:   "source",
					Value: "[[../Lenses/How can LLMs be understood as simulatrs]]",
					Line:  8,
					Links: []WikiLink{{Target: "../Lenses/How can LLMs be understood as simulatrs", Line: 8}},
				},
			},
		}},
	}
	errs := resolveReferences(reg, e)
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if !strings.Contains(errs[0].Message, "linked file not found") {
		t.Fatalf("message = %q", errs[0].Message)
	}
	if errs[0].Suggestion != "../Lenses/How can LLMs be understood as simulators.md" {
		t.Fatalf("suggestion = %q", errs[0].Suggestion)
	}
}

func TestResolveReferences_ArticleNeverCorrectedToLens(t *testing.T) {
	// The lens file's stem is textually identical to the missing article; the
	// suggestion must still come from the articles only.
	reg := NewRegistry(map[string]string{
		"Lenses/transformer-circuits.md": "---\ntitle: x\ntype: article\n---\nsource:: [[../Articles/a.md]]",
		"Modules/m.md":                   "x",
	})
	e := &Entity{
		Kind: KindModule,
		Path: "Modules/m.md",
		Sections: []Section{{
			Type: SectionLensArticle,
			Segments: []Segment{{
				Type: SegmentArticleExcerpt,
				Line: 10,
				Fields: map[string]Field{
					"source": {
						Key:   "source",
						Value: "[[../Articles/transformer-circuits.md]]",
						Line:  11,
						Links: []WikiLink{{Target: "../Articles/transformer-circuits.md", Line: 11}},
					},
				},
			}},
		}},
	}
	errs := resolveReferences(reg, e)
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Suggestion != "" {
		t.Fatalf("lens offered for an article reference: %q", errs[0].Suggestion)
	}
}

func TestResolveReferences_CourseModulesWantModules(t *testing.T) {
	reg := NewRegistry(map[string]string{
		"Modules/intro-to-llms.md": "---\nslug: intro-to-llms\ntitle: x\n---\n",
		"Courses/c.md":             "x",
	})
	e := &Entity{
		Kind: KindCourse,
		Path: "Courses/c.md",
		Fields: map[string]Field{
			"modules": {
				Key:   "modules",
				Value: "[[../Modules/intro-to-lms]]",
				Line:  6,
				Links: []WikiLink{{Target: "../Modules/intro-to-lms", Line: 6}},
			},
		},
	}
	errs := resolveReferences(reg, e)
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Suggestion != "../Modules/intro-to-llms.md" {
		t.Fatalf("suggestion = %q", errs[0].Suggestion)
	}
}
