package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fieldMarkerRE = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)::(.*)$`)
	singleColonRE = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*):([^:].*|)$`)
	wikiLinkRE    = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)
)

// fieldSet is the extraction result for one block body. singleColon records
// lines written as 'key: value' (one colon, not a field marker); the schema
// validator uses it to tell authors the correct syntax when a required field
// was only ever expressed that way.
type fieldSet struct {
	fields      map[string]Field
	order       []string
	singleColon map[string]int
}

func (fs *fieldSet) get(key string) (Field, bool) {
	f, ok := fs.fields[key]
	return f, ok
}

// extractFields scans a block body top-to-bottom for 'key:: value' single-line
// fields and 'key::' multi-line fields. A multi-line value is every subsequent
// line up to (not including) the next blank line, field marker, or header,
// with newlines preserved.
func extractFields(file, body string, startLine int) (*fieldSet, []ValidationError) {
	fs := &fieldSet{
		fields:      map[string]Field{},
		singleColon: map[string]int{},
	}
	var errs []ValidationError

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], " \t\r")
		lineNo := startLine + i

		if m := fieldMarkerRE.FindStringSubmatch(raw); m != nil {
			key := m[1]
			value := strings.TrimSpace(m[2])
			valueLine := lineNo
			if value == "" {
				valueLine = lineNo + 1
				var cont []string
				for j := i + 1; j < len(lines); j++ {
					next := strings.TrimRight(lines[j], " \t\r")
					if strings.TrimSpace(next) == "" || fieldMarkerRE.MatchString(next) || strings.HasPrefix(next, "#") {
						break
					}
					cont = append(cont, next)
					i = j
				}
				value = strings.Join(cont, "\n")
			}
			if _, dup := fs.fields[key]; dup {
				errs = append(errs, ValidationError{
					File:     file,
					Line:     lineNo,
					Message:  fmt.Sprintf("duplicate field %q: first occurrence wins", key),
					Severity: SeverityWarning,
				})
				continue
			}
			fs.fields[key] = Field{
				Key:   key,
				Value: value,
				Line:  lineNo,
				Links: tagWikiLinks(value, valueLine),
			}
			fs.order = append(fs.order, key)
			continue
		}

		if m := singleColonRE.FindStringSubmatch(raw); m != nil {
			if _, seen := fs.singleColon[m[1]]; !seen {
				fs.singleColon[m[1]] = lineNo
			}
		}
	}
	return fs, errs
}

// tagWikiLinks records every [[path]] / [[path|label]] occurrence in a field
// value so the reference resolver can locate them without re-scanning text.
func tagWikiLinks(value string, line int) []WikiLink {
	idxs := wikiLinkRE.FindAllStringSubmatchIndex(value, -1)
	if len(idxs) == 0 {
		return nil
	}
	links := make([]WikiLink, 0, len(idxs))
	for _, ix := range idxs {
		link := WikiLink{
			Target: strings.TrimSpace(value[ix[2]:ix[3]]),
			Line:   line + strings.Count(value[:ix[0]], "\n"),
		}
		if ix[4] >= 0 {
			link.Label = strings.TrimSpace(value[ix[4]:ix[5]])
		}
		links = append(links, link)
	}
	return links
}
