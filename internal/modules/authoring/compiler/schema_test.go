package compiler

import (
	"strings"
	"testing"
)

func TestValidateSlug_DistinctMessages(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"", "slug is empty"},
		{"   ", "slug is empty"},
		{"Upper-Case", `slug "Upper-Case" must be lowercase`},
		{"-leading", `slug "-leading" must not start or end with a hyphen`},
		{"trailing-", `slug "trailing-" must not start or end with a hyphen`},
		{"has space", `slug "has space" may only contain lowercase letters, digits, and hyphens`},
		{"bad!char", `slug "bad!char" may only contain lowercase letters, digits, and hyphens`},
	}
	for _, tc := range cases {
		errs := validateSlug("f.md", 2, "slug", tc.value)
		if len(errs) != 1 {
			t.Fatalf("%q: expected one error, got %+v", tc.value, errs)
		}
		if errs[0].Message != tc.want {
			t.Fatalf("%q: message = %q, want %q", tc.value, errs[0].Message, tc.want)
		}
		if errs[0].Severity != SeverityError || errs[0].Line != 2 {
			t.Fatalf("%q: err = %+v", tc.value, errs[0])
		}
	}
}

func TestValidateSlug_AcceptsWellFormed(t *testing.T) {
	for _, v := range []string{"valid-slug-1", "a", "x9", "multi-part-name"} {
		if errs := validateSlug("f.md", 2, "slug", v); len(errs) != 0 {
			t.Fatalf("%q rejected: %+v", v, errs)
		}
	}
}

func TestValidateFieldSet_MissingRequired(t *testing.T) {
	fs, _ := extractFields("f.md", "hidePreviousContentFromUser:: true", 12)
	errs := validateFieldSet("f.md", 11, "Text segment", SegmentText, fs, segmentSpecs[SegmentText])
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Message != `missing required field "content" on Text segment` || errs[0].Line != 11 {
		t.Fatalf("err = %+v", errs[0])
	}
}

func TestValidateFieldSet_SingleColonGetsSyntaxError(t *testing.T) {
	fs, _ := extractFields("f.md", "question: what is a transformer?", 20)
	errs := validateFieldSet("f.md", 19, "Test-question segment", SegmentTestQuestion, fs, segmentSpecs[SegmentTestQuestion])
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	want := `field "question" uses a single colon; fields are written "question:: value" with a double colon`
	if errs[0].Message != want || errs[0].Line != 20 {
		t.Fatalf("err = %+v", errs[0])
	}
}

func TestValidateFieldSet_EmptyRequired(t *testing.T) {
	fs, _ := extractFields("f.md", "content::   ", 4)
	errs := validateFieldSet("f.md", 3, "Text segment", SegmentText, fs, segmentSpecs[SegmentText])
	if len(errs) != 1 || errs[0].Message != `required field "content" on Text segment is empty` {
		t.Fatalf("errs = %+v", errs)
	}
}

func TestValidateFieldSet_WrongSiblingFieldIsWarning(t *testing.T) {
	fs, _ := extractFields("f.md", "content:: hi\ninstructions:: be brief", 5)
	errs := validateFieldSet("f.md", 4, "Text segment", SegmentText, fs, segmentSpecs[SegmentText])
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	if errs[0].Severity != SeverityWarning {
		t.Fatalf("severity = %q", errs[0].Severity)
	}
	if errs[0].Message != `field "instructions" belongs to Chat segments, not Text segment` {
		t.Fatalf("message = %q", errs[0].Message)
	}
}

func TestValidateFieldSet_UnknownFieldWarnsWithSuggestion(t *testing.T) {
	fs, _ := extractFields("f.md", "content:: hi\nconteny:: typo", 5)
	errs := validateFieldSet("f.md", 4, "Text segment", SegmentText, fs, segmentSpecs[SegmentText])
	if len(errs) != 1 || errs[0].Severity != SeverityWarning {
		t.Fatalf("errs = %+v", errs)
	}
	if !strings.Contains(errs[0].Message, `unknown field "conteny"`) {
		t.Fatalf("message = %q", errs[0].Message)
	}
	if errs[0].Suggestion != "content" {
		t.Fatalf("suggestion = %q", errs[0].Suggestion)
	}
}

func TestValidateFieldSet_BooleanValues(t *testing.T) {
	fs, _ := extractFields("f.md", "content:: hi\nhidePreviousContentFromUser:: TRUE\nhidePreviousContentFromTutor:: yes", 1)
	errs := validateFieldSet("f.md", 1, "Text segment", SegmentText, fs, segmentSpecs[SegmentText])
	if len(errs) != 1 {
		t.Fatalf("case-insensitive true must pass, bare 'yes' must not: %+v", errs)
	}
	if errs[0].Message != `field "hidePreviousContentFromTutor" must be "true" or "false", got "yes"` {
		t.Fatalf("message = %q", errs[0].Message)
	}
}
