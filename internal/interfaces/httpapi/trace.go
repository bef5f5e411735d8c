package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/match-metrics/internal/query"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var handlerTracer = otel.Tracer("github.com/riskibarqy/match-metrics/internal/interfaces/httpapi")

// probePaths are answered without a server span.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// RequestTracing opens the server span for every request except probes.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "match-metrics-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	_, probe := probePaths[strings.ToLower(strings.TrimSpace(path))]
	return !probe
}

// startHandlerSpan opens a child of the server span. Untraced requests have
// no parent and get the no-op span already in ctx.
func startHandlerSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return handlerTracer.Start(ctx, "httpapi.Handler."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// queryAttributes records the non-empty metrics parameters on the span.
func queryAttributes(req metricsQueryRequest) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	for _, name := range query.Names {
		if v := req.lookup(name); v != "" {
			attrs = append(attrs, attribute.String("metrics.param."+name, v))
		}
	}
	return attrs
}

func failSpan(span trace.Span, err error, status int) {
	span.SetAttributes(attribute.Int("metrics.error_status", status))
	span.RecordError(err)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
	}
}
