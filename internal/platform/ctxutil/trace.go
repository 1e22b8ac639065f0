// Package ctxutil carries per-request identifiers through context values.
package ctxutil

import "context"

type traceDataKey struct{}

// TraceData holds the identifiers stamped onto a request by the trace
// middleware; handlers and loggers read them back for correlation.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}
