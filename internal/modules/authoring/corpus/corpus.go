package corpus

import (
	"context"
	"sort"
	"time"
)

// Snapshot is one immutable pull of the authoring corpus: every markdown file
// under the content root, keyed by corpus-root-relative path.
type Snapshot struct {
	Files     map[string]string
	Ref       string
	FetchedAt time.Time
}

// Paths returns the snapshot's file paths in sorted order.
func (s *Snapshot) Paths() []string {
	out := make([]string, 0, len(s.Files))
	for p := range s.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Fetcher pulls the full corpus from wherever authors keep it. The compiler
// itself never does I/O; everything it sees arrives through one of these.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}
