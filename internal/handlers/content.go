package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/modules/authoring/compiler"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
	"github.com/yungbote/tutorbridge-backend/internal/services"
)

type ContentHandler struct {
	log *logger.Logger
	svc services.ContentService
}

func NewContentHandler(baseLog *logger.Logger, svc services.ContentService) *ContentHandler {
	return &ContentHandler{
		log: baseLog.With("handler", "ContentHandler"),
		svc: svc,
	}
}

// GetModel serves the current compiled content model.
func (h *ContentHandler) GetModel(c *gin.Context) {
	model, err := h.svc.Model(c.Request.Context())
	if err != nil {
		requestLogger(h.log, c).Error("get model failed", "error", err)
		RespondErr(c, apierr.Unavailable("content_unavailable", err))
		return
	}
	RespondOK(c, model)
}

// Refresh forces a corpus fetch and recompile, bypassing the cache.
func (h *ContentHandler) Refresh(c *gin.Context) {
	model, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		requestLogger(h.log, c).Error("refresh failed", "error", err)
		RespondErr(c, apierr.Unavailable("content_refresh_failed", err))
		return
	}
	RespondOK(c, model)
}

type validateRequest struct {
	File string `json:"file"`
	Text string `json:"text"`
}

// Validate checks one file's structure and fields for the kind in the URL,
// without cross-file reference resolution. Intended for editor feedback loops.
func (h *ContentHandler) Validate(c *gin.Context) {
	kind, ok := kindParam(c.Param("kind"))
	if !ok {
		RespondErr(c, apierr.BadRequest("unknown_kind", fmt.Errorf("unknown entity kind %q", c.Param("kind"))))
		return
	}
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErr(c, apierr.BadRequest("malformed_body", err))
		return
	}
	res, err := h.svc.ValidateFile(c.Request.Context(), kind, req.File, req.Text)
	if err != nil {
		RespondErr(c, apierr.BadRequest("validation_unsupported", err))
		return
	}
	RespondOK(c, res)
}

func kindParam(raw string) (compiler.EntityKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "module":
		return compiler.KindModule, true
	case "course":
		return compiler.KindCourse, true
	case "learning-outcome":
		return compiler.KindLearningOutcome, true
	case "lens":
		return compiler.KindLens, true
	default:
		return "", false
	}
}
