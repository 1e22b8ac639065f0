package compiler

import (
	"strings"
	"testing"
)

func TestExtractFields_SingleLine(t *testing.T) {
	fs, errs := extractFields("f.md", "content:: hello world\nfrom:: 01:30", 10)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	f, ok := fs.get("content")
	if !ok || f.Value != "hello world" || f.Line != 10 {
		t.Fatalf("content = %+v", f)
	}
	if f, _ := fs.get("from"); f.Value != "01:30" || f.Line != 11 {
		t.Fatalf("from = %+v", f)
	}
	if got := strings.Join(fs.order, ","); got != "content,from" {
		t.Fatalf("order = %q", got)
	}
}

func TestExtractFields_MultiLineEndsAtBlankLine(t *testing.T) {
	body := "content::\nfirst line\nsecond line\n\ntrailing prose"
	fs, _ := extractFields("f.md", body, 1)
	f, ok := fs.get("content")
	if !ok {
		t.Fatalf("content missing")
	}
	if f.Value != "first line\nsecond line" {
		t.Fatalf("value = %q", f.Value)
	}
}

func TestExtractFields_MultiLineEndsAtNextFieldOrHeader(t *testing.T) {
	body := "instructions::\nbe kind\nhidePreviousContentFromUser:: true"
	fs, _ := extractFields("f.md", body, 1)
	if f, _ := fs.get("instructions"); f.Value != "be kind" {
		t.Fatalf("instructions = %q", f.Value)
	}
	if f, ok := fs.get("hidePreviousContentFromUser"); !ok || f.Value != "true" {
		t.Fatalf("following field not extracted: %+v", f)
	}

	body = "content::\nline one\n## Chat"
	fs, _ = extractFields("f.md", body, 1)
	if f, _ := fs.get("content"); f.Value != "line one" {
		t.Fatalf("header must terminate the value, got %q", f.Value)
	}
}

func TestExtractFields_DuplicateIsWarningFirstWins(t *testing.T) {
	fs, errs := extractFields("f.md", "content:: a\ncontent:: b", 1)
	if f, _ := fs.get("content"); f.Value != "a" {
		t.Fatalf("value = %q", f.Value)
	}
	if len(errs) != 1 || errs[0].Severity != SeverityWarning {
		t.Fatalf("errs = %+v", errs)
	}
	if !strings.Contains(errs[0].Message, "duplicate field") || errs[0].Line != 2 {
		t.Fatalf("err = %+v", errs[0])
	}
}

func TestExtractFields_SingleColonRecordedNotExtracted(t *testing.T) {
	fs, errs := extractFields("f.md", "question: what is attention?", 7)
	if len(errs) != 0 {
		t.Fatalf("single-colon lines are not findings by themselves: %+v", errs)
	}
	if _, ok := fs.get("question"); ok {
		t.Fatalf("single-colon line must not become a field")
	}
	if line, ok := fs.singleColon["question"]; !ok || line != 7 {
		t.Fatalf("singleColon = %v", fs.singleColon)
	}
}

func TestExtractFields_TagsWikiLinks(t *testing.T) {
	fs, _ := extractFields("f.md", "source:: [[../Articles/attention-paper.md|Attention]]", 3)
	f, _ := fs.get("source")
	if len(f.Links) != 1 {
		t.Fatalf("links = %+v", f.Links)
	}
	l := f.Links[0]
	if l.Target != "../Articles/attention-paper.md" || l.Label != "Attention" || l.Line != 3 {
		t.Fatalf("link = %+v", l)
	}
}

func TestExtractFields_MultiLineLinksKeepPerLineNumbers(t *testing.T) {
	body := "modules::\n[[../Modules/intro]]\n[[../Modules/advanced]]"
	fs, _ := extractFields("f.md", body, 5)
	f, _ := fs.get("modules")
	if len(f.Links) != 2 {
		t.Fatalf("links = %+v", f.Links)
	}
	if f.Links[0].Line != 6 || f.Links[1].Line != 7 {
		t.Fatalf("link lines = %d, %d", f.Links[0].Line, f.Links[1].Line)
	}
	if f.Links[0].Target != "../Modules/intro" || f.Links[0].Label != "" {
		t.Fatalf("link[0] = %+v", f.Links[0])
	}
}
