package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todos/internal/core/port"
)

// OTELProbe implements the telemetry port using OpenTelemetry
type OTELProbe struct {
	tracer trace.Tracer
	logger *slog.Logger
}

func NewOTELProbe(serviceName string, logger *slog.Logger) port.Telemetry {
	return &OTELProbe{
		tracer: otel.Tracer(serviceName),
		logger: logger,
	}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.entity", entity),
	}

	return p.tracer.Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, userID string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.operation", operation),
		attribute.String("user.id", userID),
	}

	return p.tracer.Start(ctx, spanName, trace.WithAttributes(append(standardAttrs, attrs...)...))
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID string) {
	span := trace.SpanFromContext(ctx)

	span.AddEvent(event, trace.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("entity.id", entityID),
		attribute.String("user.id", userID),
	))

	p.logger.Info("business event", "event", event, "entity", entity, "entity_id", entityID, "user_id", userID)
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error) {
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	p.logger.Error("operation failed", "operation", operation, "error", err)
}
