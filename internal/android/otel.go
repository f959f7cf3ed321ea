// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("dartsctl")

func spanContext(cfg Config) context.Context {
	if cfg.Context != nil {
		return cfg.Context
	}
	return context.Background()
}

func startSpan(cfg Config, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if cfg.CorrelationID != "" {
		attrs = append(attrs, attribute.String("correlation_id", cfg.CorrelationID))
	}
	ctx := spanContext(cfg)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
}
