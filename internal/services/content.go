package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	redisclient "github.com/yungbote/tutorbridge-backend/internal/clients/redis"
	"github.com/yungbote/tutorbridge-backend/internal/modules/authoring/compiler"
	"github.com/yungbote/tutorbridge-backend/internal/modules/authoring/corpus"
	"github.com/yungbote/tutorbridge-backend/internal/platform/envutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

// ContentModel is the served shape of one compiled corpus: the validated
// entities plus every finding, stamped with the run that produced them.
type ContentModel struct {
	RunID      string                     `json:"runId"`
	Ref        string                     `json:"ref"`
	CompiledAt time.Time                  `json:"compiledAt"`
	Entities   []compiler.Entity          `json:"entities"`
	Errors     []compiler.ValidationError `json:"errors"`
}

type ContentService interface {
	Model(ctx context.Context) (*ContentModel, error)
	Refresh(ctx context.Context) (*ContentModel, error)
	ValidateFile(ctx context.Context, kind compiler.EntityKind, file, text string) (compiler.FileResult, error)
}

type contentService struct {
	log     *logger.Logger
	fetcher corpus.Fetcher
	cache   redisclient.ModelCache

	mu     sync.Mutex
	latest *ContentModel
}

func NewContentService(baseLog *logger.Logger, fetcher corpus.Fetcher, cache redisclient.ModelCache) (ContentService, error) {
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("corpus fetcher required")
	}
	return &contentService{
		log:     baseLog.With("service", "ContentService"),
		fetcher: fetcher,
		cache:   cache,
	}, nil
}

const modelCacheKey = "content:model"

// Model returns the current compiled content model, preferring the in-process
// copy, then the shared cache, then a fresh fetch-and-compile run.
func (s *contentService) Model(ctx context.Context) (*ContentModel, error) {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()
	if latest != nil {
		return latest, nil
	}

	if s.cache != nil {
		var cached ContentModel
		hit, err := s.cache.Get(ctx, modelCacheKey, &cached)
		if err != nil {
			s.log.Warn("model cache read failed", "error", err)
		}
		if hit {
			s.mu.Lock()
			s.latest = &cached
			s.mu.Unlock()
			return &cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches the corpus and recompiles it, replacing both the in-process
// model and the shared cache entry.
func (s *contentService) Refresh(ctx context.Context) (*ContentModel, error) {
	runID := uuid.New().String()
	ctx, span := otel.Tracer("content").Start(ctx, "content.refresh")
	span.SetAttributes(attribute.String("content.run_id", runID))
	defer span.End()

	start := time.Now()
	snap, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.log.Error("corpus fetch failed", "run_id", runID, "error", err)
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}

	result := compiler.Compile(snap.Files)
	model := &ContentModel{
		RunID:      runID,
		Ref:        snap.Ref,
		CompiledAt: time.Now().UTC(),
		Entities:   result.Entities,
		Errors:     result.Errors,
	}
	span.SetAttributes(
		attribute.Int("content.files", len(snap.Files)),
		attribute.Int("content.entities", len(model.Entities)),
		attribute.Int("content.findings", len(model.Errors)),
	)
	s.log.Info("content model compiled",
		"run_id", runID,
		"ref", snap.Ref,
		"files", len(snap.Files),
		"entities", len(model.Entities),
		"findings", len(model.Errors),
		"took", time.Since(start).String(),
	)

	s.mu.Lock()
	s.latest = model
	s.mu.Unlock()

	if s.cache != nil {
		ttl := envutil.Duration("CONTENT_CACHE_TTL", 5*time.Minute)
		if err := s.cache.Set(ctx, modelCacheKey, model, ttl); err != nil {
			s.log.Warn("model cache write failed", "run_id", runID, "error", err)
		}
	}
	return model, nil
}

// ValidateFile runs single-file structural validation for fast authoring
// feedback; cross-file references are not resolved here.
func (s *contentService) ValidateFile(ctx context.Context, kind compiler.EntityKind, file, text string) (compiler.FileResult, error) {
	_, span := otel.Tracer("content").Start(ctx, "content.validate_file")
	span.SetAttributes(attribute.String("content.kind", string(kind)))
	defer span.End()

	if strings.TrimSpace(file) == "" {
		file = "untitled.md"
	}
	switch kind {
	case compiler.KindModule:
		return compiler.ValidateModule(file, text), nil
	case compiler.KindCourse:
		return compiler.ValidateCourse(file, text), nil
	case compiler.KindLearningOutcome:
		return compiler.ValidateLearningOutcome(file, text), nil
	case compiler.KindLens:
		return compiler.ValidateLens(file, text), nil
	default:
		return compiler.FileResult{}, fmt.Errorf("unsupported entity kind %q", kind)
	}
}
