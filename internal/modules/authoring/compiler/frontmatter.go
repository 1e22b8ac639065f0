package compiler

import (
	"fmt"
	"strings"
)

const frontmatterDelimiter = "---"

// frontmatter is the parsed metadata block at the top of a file. openLine and
// closeLine record the delimiter positions so the setext guard can skip them.
type frontmatter struct {
	values    map[string]string
	lines     map[string]int
	openLine  int
	closeLine int
	bodyStart int
	body      string
}

func (fm *frontmatter) get(key string) string {
	if fm == nil {
		return ""
	}
	return fm.values[key]
}

// lineOf returns the line a metadata key was declared on, or the opening
// delimiter line when the key is absent (so errors still point somewhere real).
func (fm *frontmatter) lineOf(key string) int {
	if fm == nil {
		return 1
	}
	if n, ok := fm.lines[key]; ok {
		return n
	}
	return fm.openLine
}

// parseFrontmatter splits raw file text into a metadata block and a body.
// The file must open with a '---' line and close the block with a second one
// before any other content. Missing or malformed frontmatter is always an
// error and returns a nil frontmatter: downstream stages never run without
// known metadata boundaries.
func parseFrontmatter(file, text string) (*frontmatter, []ValidationError) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != frontmatterDelimiter {
		return nil, []ValidationError{{
			File:     file,
			Line:     1,
			Message:  "missing frontmatter: file must begin with a '---' metadata block",
			Severity: SeverityError,
		}}
	}

	fm := &frontmatter{
		values:   map[string]string{},
		lines:    map[string]int{},
		openLine: 1,
	}
	var errs []ValidationError

	closeAt := -1
	for i := 1; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], " \t\r")
		if raw == frontmatterDelimiter {
			closeAt = i
			break
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, ":")
		if !ok || strings.TrimSpace(key) == "" {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     i + 1,
				Message:  fmt.Sprintf("malformed frontmatter line %q: expected 'key: value'", strings.TrimSpace(raw)),
				Severity: SeverityError,
			})
			continue
		}
		k := strings.TrimSpace(key)
		if _, dup := fm.values[k]; dup {
			errs = append(errs, ValidationError{
				File:     file,
				Line:     i + 1,
				Message:  fmt.Sprintf("duplicate frontmatter key %q", k),
				Severity: SeverityError,
			})
			continue
		}
		fm.values[k] = unquote(strings.TrimSpace(value))
		fm.lines[k] = i + 1
	}

	if closeAt < 0 {
		errs = append(errs, ValidationError{
			File:     file,
			Line:     1,
			Message:  "unclosed frontmatter: missing closing '---'",
			Severity: SeverityError,
		})
		return nil, errs
	}

	fm.closeLine = closeAt + 1
	fm.bodyStart = closeAt + 2
	if closeAt+1 < len(lines) {
		fm.body = strings.Join(lines[closeAt+1:], "\n")
	}
	return fm, errs
}

// unquote strips one matched pair of surrounding single or double quotes.
// Metadata values are stored unquoted; interior quotes are left alone.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
