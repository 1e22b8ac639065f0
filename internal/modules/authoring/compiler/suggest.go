package compiler

import (
	"path"
	"strings"
)

// The suggestion engine ranks "did you mean" candidates for unresolved
// references and unrecognized field/header names. Candidates are always
// restricted to what is plausible in context: file suggestions only consider
// registry entries of the expected kind, name suggestions only consider the
// owning type's valid-name set. When nothing clears the distance threshold,
// no suggestion is attached at all; a misleading hint is worse than none.

// suggestName returns the closest candidate name, or "" when none is close
// enough. Matching is case-insensitive.
func suggestName(name string, candidates []string) string {
	name = strings.ToLower(name)
	best, bestDist := "", maxNameDistance+1
	for _, c := range candidates {
		d := levenshtein(name, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > maxNameDistance || bestDist >= len(name) {
		return ""
	}
	return best
}

const maxNameDistance = 2

// suggestPath returns the best replacement for an unresolved reference,
// formatted relative to the referencing file's directory so the author can
// paste it straight into the link. Only files of the expected kind are
// considered, even when a file of another kind is textually closer.
func suggestPath(reg *Registry, fromDir, target string, want EntityKind) string {
	stem := strings.ToLower(strings.TrimSuffix(path.Base(target), ".md"))
	if stem == "" {
		return ""
	}
	best, bestDist := "", pathDistanceBudget(stem)+1
	for _, p := range reg.PathsByKind(want) {
		cand := strings.ToLower(strings.TrimSuffix(path.Base(p), ".md"))
		d := levenshtein(stem, cand)
		if d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == "" {
		return ""
	}
	return relativePath(fromDir, best)
}

// pathDistanceBudget scales the accepted edit distance with the name length,
// so long natural-language filenames tolerate a few typos while short names
// stay strict.
func pathDistanceBudget(stem string) int {
	budget := len(stem) / 4
	if budget < 2 {
		budget = 2
	}
	return budget
}

// relativePath rewrites a corpus-root-relative target as a path relative to
// fromDir ("" means the corpus root). Virtual paths always use '/'.
func relativePath(fromDir, target string) string {
	if fromDir == "" || fromDir == "." {
		return target
	}
	from := strings.Split(fromDir, "/")
	to := strings.Split(target, "/")
	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}
	var parts []string
	for i := common; i < len(from); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	return strings.Join(parts, "/")
}

// levenshtein is a plain two-row edit distance. Inputs here are short (field
// names, file stems), so no banding is needed.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
