package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/tutorbridge-backend/internal/modules/authoring/corpus"
	"github.com/yungbote/tutorbridge-backend/internal/platform/envutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

// ContentRepo fetches the authoring corpus from a GitHub repository using the
// git trees API plus raw content downloads. It implements corpus.Fetcher.
type ContentRepo struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	owner   string
	repo    string
	ref     string
	root    string
	token   string
}

func NewContentRepo(log *logger.Logger) (*ContentRepo, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	repoSpec := strings.TrimSpace(os.Getenv("CONTENT_REPO"))
	if repoSpec == "" {
		return nil, fmt.Errorf("missing CONTENT_REPO (expected owner/repo)")
	}
	owner, repo, ok := strings.Cut(repoSpec, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("malformed CONTENT_REPO %q (expected owner/repo)", repoSpec)
	}
	ref := strings.TrimSpace(os.Getenv("CONTENT_REF"))
	if ref == "" {
		ref = "main"
	}
	baseURL := strings.TrimSpace(os.Getenv("GITHUB_API_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &ContentRepo{
		log:     log.With("service", "GithubContentRepo"),
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		repo:    repo,
		ref:     ref,
		root:    strings.Trim(strings.TrimSpace(os.Getenv("CONTENT_ROOT")), "/"),
		token:   strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
	}, nil
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Fetch lists every markdown file under the content root at the configured
// ref and downloads their raw contents concurrently.
func (r *ContentRepo) Fetch(ctx context.Context) (*corpus.Snapshot, error) {
	paths, err := r.listMarkdownPaths(ctx)
	if err != nil {
		return nil, err
	}
	r.log.Info("fetching corpus", "repo", r.owner+"/"+r.repo, "ref", r.ref, "files", len(paths))

	files := make(map[string]string, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(envutil.Int("CONTENT_FETCH_CONCURRENCY", 8))
	for _, p := range paths {
		g.Go(func() error {
			text, err := r.fetchRaw(gctx, p)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", p, err)
			}
			mu.Lock()
			files[r.corpusPath(p)] = text
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &corpus.Snapshot{Files: files, Ref: r.ref, FetchedAt: time.Now().UTC()}, nil
}

func (r *ContentRepo) listMarkdownPaths(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", r.baseURL, r.owner, r.repo, url.PathEscape(r.ref))
	var tree treeResponse
	if err := r.getJSON(ctx, u, &tree); err != nil {
		return nil, fmt.Errorf("list tree: %w", err)
	}
	if tree.Truncated {
		return nil, fmt.Errorf("tree listing truncated for %s/%s@%s; corpus too large for the trees API", r.owner, r.repo, r.ref)
	}
	var out []string
	prefix := ""
	if r.root != "" {
		prefix = r.root + "/"
	}
	for _, entry := range tree.Tree {
		if entry.Type != "blob" || !strings.HasSuffix(entry.Path, ".md") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Path, prefix) {
			continue
		}
		out = append(out, entry.Path)
	}
	return out, nil
}

// corpusPath strips the configured content root so registry paths are always
// corpus-root-relative.
func (r *ContentRepo) corpusPath(p string) string {
	if r.root == "" {
		return p
	}
	return strings.TrimPrefix(p, r.root+"/")
}

func (r *ContentRepo) fetchRaw(ctx context.Context, p string) (string, error) {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", r.baseURL, r.owner, r.repo, strings.Join(segments, "/"), url.QueryEscape(r.ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	r.authorize(req)
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github responded %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *ContentRepo) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	r.authorize(req)
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github responded %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *ContentRepo) authorize(req *http.Request) {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
}
