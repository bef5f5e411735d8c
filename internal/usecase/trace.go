package usecase

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/riskibarqy/match-metrics/internal/usecase")

// childSpan starts a span only under an existing trace; background callers
// such as the warmup loop stay untraced.
func childSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// traced runs fn under a child span named op and records a failure on it.
// Invalid input is noted but does not mark the span as errored.
func traced[T any](ctx context.Context, op string, values map[string]string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := childSpan(ctx, "usecase."+op, paramAttributes(values)...)
	defer span.End()

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		if !IsInvalidInput(err) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return out, err
}

// paramAttributes renders query values in name order.
func paramAttributes(values map[string]string) []attribute.KeyValue {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]attribute.KeyValue, len(names))
	for i, name := range names {
		out[i] = attribute.String("query."+name, values[name])
	}
	return out
}
