package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/stretchr/testify/assert"
)

func TestRouter_MethodMismatch(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, newTestReader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/metrics/results", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/metrics/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("nil tree") })
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/metrics/goals", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"internalError"`)
	assert.NotContains(t, rec.Body.String(), "nil tree")
}

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	inner := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: inner, status: http.StatusOK}
	rec.WriteHeader(http.StatusTeapot)
	_, _ = rec.Write([]byte("hello"))

	assert.Equal(t, http.StatusTeapot, rec.status)
	assert.Equal(t, 5, rec.bytes)
}
