package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/pitcher-favorites/internal/api/middleware"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/go-chi/chi/v5"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "success logs at info", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "client error logs at warn", status: http.StatusNotFound, wantLevel: zapcore.WarnLevel},
		{name: "server error logs at error", status: http.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pitchers", nil))

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, int64(tt.status), entries[0].ContextMap()["status"])
			assert.Equal(t, "GET", entries[0].ContextMap()["method"])
		})
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.Instrument(m))
	r.Get("/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favorites/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	// Path parameters collapse into the route pattern
	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/favorites/{id}", "204")))
}
