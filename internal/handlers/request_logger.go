package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

// requestLogger scopes a logger to the request's trace identifiers.
func requestLogger(base *logger.Logger, c *gin.Context) *logger.Logger {
	td := ctxutil.GetTraceData(c.Request.Context())
	if td == nil {
		return base
	}
	return base.With("trace_id", td.TraceID, "request_id", td.RequestID)
}
