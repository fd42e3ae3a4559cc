// Package otel provides tracing helpers shared by the configuration admin and catalog packages.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared across spans
const (
	AttrConfigurationPID = attribute.Key("configuration.pid")
	AttrSourceID         = attribute.Key("source.id")
	AttrSourceType       = attribute.Key("source.type")
	AttrAvailable        = attribute.Key("source.available")
	AttrLookupPath       = attribute.Key("lookup.path")
	AttrResultCount      = attribute.Key("result.count")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise it returns
// the span already in ctx (a no-op span when there is none).
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status description stays generic so that connection strings and
// credentials only appear in the error event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
