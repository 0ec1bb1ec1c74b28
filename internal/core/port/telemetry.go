package port

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry lets the core emit spans and events without knowing the
// backing implementation.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span)
	StartServiceSpan(ctx context.Context, service string, operation string, userID string, attrs []attribute.KeyValue) (context.Context, trace.Span)

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID string)
	RecordError(ctx context.Context, operation string, err error)
}
