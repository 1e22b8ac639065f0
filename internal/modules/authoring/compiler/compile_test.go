package compiler

import (
	"reflect"
	"testing"
)

func validCorpus() map[string]string {
	return map[string]string{
		"Modules/intro-to-llms.md": validModuleText,
		"Courses/llm-foundations.md": "---\nslug: llm-foundations\ntitle: LLM Foundations\n---\n\n" +
			"modules::\n[[../Modules/intro-to-llms]]\n\ndescription:: Start here.\n",
		"Learning Outcomes/explain-attention.md": "---\nid: explain-attention\ntitle: Explain attention\n---\n\n" +
			"## Lens\nsource:: [[../Lenses/attention-explained.md]]\n\n## Test\nquestion:: Why attend?\n",
		"Lenses/attention-explained.md": "---\ntitle: Attention, explained\ntype: article\n---\n\n" +
			"source:: [[../Articles/attention-paper.md]]\n",
		"Articles/attention-paper.md": "Attention Is All You Need. Raw source text.",
	}
}

func TestCompile_ValidCorpusRoundTrip(t *testing.T) {
	res := Compile(validCorpus())
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Entities) != 4 {
		t.Fatalf("entities = %d", len(res.Entities))
	}
	// Merged in sorted path order; raw articles are registry targets only.
	wantOrder := []EntityKind{KindCourse, KindLearningOutcome, KindLens, KindModule}
	for i, e := range res.Entities {
		if e.Kind != wantOrder[i] {
			t.Fatalf("entities[%d].Kind = %q, want %q", i, e.Kind, wantOrder[i])
		}
	}
	module := res.Entities[3]
	if module.Slug != "intro-to-llms" || len(module.Sections) != 2 {
		t.Fatalf("module = %+v", module)
	}
}

func TestCompile_ExactErrorReproduction(t *testing.T) {
	corpus := map[string]string{
		"Learning Outcomes/lo1.md": "---\nid: lo1\ntitle: LO 1\n---\n\n" +
			"## Lens\nsource:: [[../Lenses/How can LLMs be understood as simulatrs]]\n",
		"Lenses/How can LLMs be understood as simulators.md": "---\ntitle: Simulators\ntype: article\n---\n\n" +
			"source:: [[../Articles/simulators-essay.md]]\n",
		"Articles/simulators-essay.md": "raw",
	}
	res := Compile(corpus)
	want := []ValidationError{{
		File:       "Learning Outcomes/lo1.md",
		Line:       7,
		Message:    `linked file not found: "../Lenses/How can LLMs be understood as simulatrs"`,
		Suggestion: "../Lenses/How can LLMs be understood as simulators.md",
		Severity:   SeverityError,
	}}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Fatalf("errors = %+v, want %+v", res.Errors, want)
	}
	// The broken learning outcome is excluded; the lens survives.
	if len(res.Entities) != 1 || res.Entities[0].Kind != KindLens {
		t.Fatalf("entities = %+v", res.Entities)
	}
}

func TestCompile_Idempotent(t *testing.T) {
	corpus := validCorpus()
	corpus["Modules/broken.md"] = "---\nslug: Broken\ntitle: x\n---\n\n# Pge\n"
	first := Compile(corpus)
	second := Compile(corpus)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCompile_ErrorsGroupedBySortedPath(t *testing.T) {
	corpus := map[string]string{
		"Modules/zz.md": "no frontmatter",
		"Courses/aa.md": "no frontmatter",
	}
	res := Compile(corpus)
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if res.Errors[0].File != "Courses/aa.md" || res.Errors[1].File != "Modules/zz.md" {
		t.Fatalf("order = %q, %q", res.Errors[0].File, res.Errors[1].File)
	}
	if len(res.Entities) != 0 {
		t.Fatalf("entities = %+v", res.Entities)
	}
}

func TestCompile_TypeDirectoryConflictIsReported(t *testing.T) {
	res := Compile(map[string]string{
		"Modules/m.md": "---\ntype: course\nslug: m\ntitle: x\n---\n",
	})
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if res.Errors[0].Message != `frontmatter type "course" does not match the file's directory` {
		t.Fatalf("message = %q", res.Errors[0].Message)
	}
	if res.Errors[0].Line != 1 || res.Errors[0].Severity != SeverityError {
		t.Fatalf("err = %+v", res.Errors[0])
	}
}

func TestCompile_WarningsDoNotExcludeEntities(t *testing.T) {
	corpus := validCorpus()
	corpus["Modules/warned.md"] = "---\nslug: warned\ntitle: x\nslugg: typo\n---\n\n# Page\n\n## Text\ncontent:: y\n"
	res := Compile(corpus)
	if len(res.Errors) != 1 || res.Errors[0].Severity != SeverityWarning {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if len(res.Entities) != 5 {
		t.Fatalf("the warned module must still be emitted: %d entities", len(res.Entities))
	}
}

func TestCompile_EmptyCorpus(t *testing.T) {
	res := Compile(map[string]string{})
	if res.Entities == nil || res.Errors == nil {
		t.Fatalf("result slices must be non-nil: %+v", res)
	}
	if len(res.Entities) != 0 || len(res.Errors) != 0 {
		t.Fatalf("res = %+v", res)
	}
}
