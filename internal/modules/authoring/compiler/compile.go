package compiler

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Compile validates a whole corpus snapshot. Pass 1 builds the immutable file
// registry from every file's raw text; pass 2 parses and validates each file
// against that shared registry. Files are independent, so pass 2 fans out on
// an errgroup; results are merged in sorted path order with per-file discovery
// order preserved, so two runs over the same snapshot produce identical
// output. The pipeline runs to completion and reports everything wrong in one
// pass; nothing here panics or aborts.
func Compile(corpus map[string]string) Result {
	reg := NewRegistry(corpus)
	paths := reg.Paths()

	outputs := make([]fileOutput, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			outputs[i] = compileFile(reg, p)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{
		Entities: []Entity{},
		Errors:   []ValidationError{},
	}
	for _, out := range outputs {
		result.Errors = append(result.Errors, out.errs...)
		if out.entity != nil && !hasError(out.errs) {
			result.Entities = append(result.Entities, *out.entity)
		}
	}
	return result
}

type fileOutput struct {
	entity *Entity
	errs   []ValidationError
}

// compileFile runs the per-file stages for one corpus path. Article and video
// files are raw source material: they live in the registry as reference
// targets but are not parsed into entities. Files outside any recognized
// directory are ignored the same way.
func compileFile(reg *Registry, p string) fileOutput {
	kind := reg.Kind(p)
	switch kind {
	case KindModule, KindCourse, KindLearningOutcome, KindLens:
	case "":
		// A declared 'type:' contradicting the directory must not make the
		// file vanish from the run.
		switch dirKindOf(p) {
		case KindModule, KindCourse, KindLearningOutcome, KindLens:
			text, _ := reg.Text(p)
			return fileOutput{errs: []ValidationError{{
				File:     p,
				Line:     1,
				Message:  fmt.Sprintf("frontmatter type %q does not match the file's directory", peekFrontmatterType(text)),
				Severity: SeverityError,
			}}}
		}
		return fileOutput{}
	default:
		return fileOutput{}
	}
	text, _ := reg.Text(p)
	entity, errs := parseEntity(p, text, kind)
	if entity != nil {
		errs = sortByLine(append(errs, resolveReferences(reg, entity)...))
	}
	return fileOutput{entity: entity, errs: errs}
}

func hasError(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
