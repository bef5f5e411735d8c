package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type route struct {
	pattern string
	handle  http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{"GET /healthz", h.Healthz},
		{"GET /v1/metrics/results", h.GetResults},
		{"GET /v1/metrics/goals", h.GetGoals},
		{"GET /v1/metrics/h2h/results", h.GetH2HResults},
		{"GET /v1/metrics/h2h/goals", h.GetH2HGoals},
		{"DELETE /v1/cache/metrics", h.InvalidateCache},
	}
}

// NewRouter wires the routes behind, outermost first: tracing, access log,
// CORS and panic recovery.
func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	for _, rt := range handler.routes() {
		mux.HandleFunc(rt.pattern, rt.handle)
	}

	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = newCORSPolicy(corsAllowedOrigins).wrap(h)
	h = accessLog(logger, h)
	return RequestTracing(h)
}

func accessLog(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log := logger.InfoContext
		if rec.status >= http.StatusInternalServerError {
			log = logger.WarnContext
		}
		log(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"bytes", rec.bytes,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(started),
		)
	})
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				trace.SpanFromContext(r.Context()).SetStatus(codes.Error, "panic")
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
