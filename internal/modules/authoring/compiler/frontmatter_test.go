package compiler

import (
	"strings"
	"testing"
)

func TestParseFrontmatter_SplitsMetaAndBody(t *testing.T) {
	text := "---\nslug: intro\ntitle: \"Intro to LLMs\"\n---\n\nbody starts here"
	fm, errs := parseFrontmatter("Modules/intro.md", text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if fm == nil {
		t.Fatalf("expected frontmatter")
	}
	if fm.get("slug") != "intro" {
		t.Fatalf("slug = %q", fm.get("slug"))
	}
	if fm.get("title") != "Intro to LLMs" {
		t.Fatalf("expected quotes stripped, got %q", fm.get("title"))
	}
	if fm.openLine != 1 || fm.closeLine != 4 {
		t.Fatalf("delimiter span = %d..%d", fm.openLine, fm.closeLine)
	}
	if fm.bodyStart != 5 {
		t.Fatalf("bodyStart = %d", fm.bodyStart)
	}
	if !strings.Contains(fm.body, "body starts here") {
		t.Fatalf("body = %q", fm.body)
	}
}

func TestParseFrontmatter_StripsSingleQuotesAndWhitespace(t *testing.T) {
	fm, errs := parseFrontmatter("f.md", "---\ntitle:   'Spaced out'  \n---\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if fm.get("title") != "Spaced out" {
		t.Fatalf("title = %q", fm.get("title"))
	}
}

func TestParseFrontmatter_MissingBlockIsError(t *testing.T) {
	fm, errs := parseFrontmatter("f.md", "# Page\n\ncontent")
	if fm != nil {
		t.Fatalf("expected nil frontmatter")
	}
	if len(errs) != 1 || errs[0].Severity != SeverityError {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Line != 1 || !strings.Contains(errs[0].Message, "missing frontmatter") {
		t.Fatalf("err = %+v", errs[0])
	}
}

func TestParseFrontmatter_UnclosedBlockIsError(t *testing.T) {
	fm, errs := parseFrontmatter("f.md", "---\ntitle: x\n\n# Page")
	if fm != nil {
		t.Fatalf("expected nil frontmatter")
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "unclosed frontmatter") {
		t.Fatalf("errs = %+v", errs)
	}
}

func TestParseFrontmatter_MalformedLineKeepsGoing(t *testing.T) {
	fm, errs := parseFrontmatter("f.md", "---\nnot a pair\ntitle: ok\n---\n")
	if fm == nil {
		t.Fatalf("expected frontmatter despite malformed line")
	}
	if fm.get("title") != "ok" {
		t.Fatalf("title = %q", fm.get("title"))
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "expected 'key: value'") {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Line != 2 {
		t.Fatalf("line = %d", errs[0].Line)
	}
}

func TestParseFrontmatter_DuplicateKey(t *testing.T) {
	fm, errs := parseFrontmatter("f.md", "---\ntitle: a\ntitle: b\n---\n")
	if fm.get("title") != "a" {
		t.Fatalf("first occurrence should win, got %q", fm.get("title"))
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "duplicate frontmatter key") {
		t.Fatalf("errs = %+v", errs)
	}
}
