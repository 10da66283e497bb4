package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/middlewares"
)

func TestRequestID_Generates(t *testing.T) {
	t.Parallel()

	var seen string
	h := middlewares.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middlewares.RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesUpstream(t *testing.T) {
	t.Parallel()

	h := middlewares.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Correlation-ID", "trace-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
}

func TestRequestID_CustomGenerator(t *testing.T) {
	t.Parallel()

	h := middlewares.RequestID(
		middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
		middlewares.WithRequestIDResponseHeader("X-Trace"),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "fixed", w.Header().Get("X-Trace"))
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	t.Parallel()
	assert.Empty(t, middlewares.RequestIDFromContext(context.Background()))
}
