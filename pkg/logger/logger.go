// Package logger adds request and trace correlation to the standard logger.
package logger

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Printf logs through the standard logger, prefixed with the request id and
// the active trace id when the context carries them.
func Printf(ctx context.Context, format string, args ...any) {
	log.Print(prefix(ctx) + fmt.Sprintf(format, args...))
}

func prefix(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	var b strings.Builder
	if id := RequestID(ctx); id != "" {
		b.WriteString("request_id=")
		b.WriteString(id)
		b.WriteString(" ")
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		b.WriteString("trace_id=")
		b.WriteString(sc.TraceID().String())
		b.WriteString(" ")
	}
	return b.String()
}
