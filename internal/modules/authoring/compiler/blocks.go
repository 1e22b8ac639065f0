package compiler

import (
	"fmt"
	"strings"
)

// rawBlock is one header-delimited span of body text, before any typing.
type rawBlock struct {
	header   string
	line     int
	body     string
	bodyLine int
}

// checkSetextHeaders flags '===' / '---' underline headers, which the
// authoring dialect does not allow. A run of 3+ '=' or '-' is only a setext
// underline when the line directly above it is non-blank text; a run preceded
// by a blank line is a thematic break and is left alone, and the two
// frontmatter delimiter lines are tracked by position and never flagged.
func checkSetextHeaders(file, text string, fm *frontmatter) []ValidationError {
	var errs []ValidationError
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		if fm != nil && (lineNo == fm.openLine || lineNo == fm.closeLine) {
			continue
		}
		if fm != nil && lineNo > fm.openLine && lineNo < fm.closeLine {
			continue
		}
		marker, ok := setextMarker(raw)
		if !ok {
			continue
		}
		if i == 0 || strings.TrimSpace(lines[i-1]) == "" {
			continue
		}
		errs = append(errs, ValidationError{
			File:     file,
			Line:     lineNo,
			Message:  fmt.Sprintf("setext-style %q underline headers are not supported; use a '#'-prefixed header on its own line instead", marker),
			Severity: SeverityError,
		})
	}
	return errs
}

// setextMarker reports whether a line consists solely of 3+ '=' or 3+ '-'.
func setextMarker(line string) (string, bool) {
	s := strings.TrimRight(line, " \t\r")
	if len(s) < 3 {
		return "", false
	}
	ch := s[0]
	if ch != '=' && ch != '-' {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ch {
			return "", false
		}
	}
	return s[:3], true
}

// segmentBlocks splits body text into an ordered list of raw blocks keyed by
// consecutive header lines at exactly the given depth. Headers deeper than the
// expected depth stay inside the enclosing block's body for child parsing.
// The returned preamble covers everything before the first header.
func segmentBlocks(body string, startLine, depth int) (preamble rawBlock, blocks []rawBlock) {
	prefix := strings.Repeat("#", depth) + " "
	lines := strings.Split(body, "\n")

	preamble = rawBlock{line: startLine, bodyLine: startLine}
	var cur *rawBlock
	var buf []string
	flush := func() {
		if cur == nil {
			preamble.body = strings.Join(buf, "\n")
		} else {
			cur.body = strings.Join(buf, "\n")
			blocks = append(blocks, *cur)
		}
		buf = nil
	}

	for i, raw := range lines {
		lineNo := startLine + i
		trimmed := strings.TrimRight(raw, " \t\r")
		if strings.HasPrefix(trimmed, prefix) {
			flush()
			cur = &rawBlock{
				header:   strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)),
				line:     lineNo,
				bodyLine: lineNo + 1,
			}
			continue
		}
		buf = append(buf, raw)
	}
	flush()
	return preamble, blocks
}
