package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/catalogsync/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

func newTestRouter(pingErr error) *gin.Engine {
	return New(zap.NewNop(), Handlers{
		Sync:     handler.NewSyncHandler(nil, nil),
		Provider: handler.NewProviderHandler(nil, nil),
		Health:   handler.NewHealthHandler(stubPinger{err: pingErr}),
	}, "test")
}

func TestNewMountsAllRoutes(t *testing.T) {
	r := newTestRouter(nil)

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/healthz"},
		{http.MethodPost, "/api/v1/sync"},
		{http.MethodPost, "/api/v1/sync/all"},
		{http.MethodGet, "/api/v1/sync/jobs"},
		{http.MethodGet, "/api/v1/sync/jobs/:id"},
		{http.MethodGet, "/api/v1/providers"},
		{http.MethodPatch, "/api/v1/providers/:key"},
		{http.MethodPost, "/api/v1/providers/:key/test"},
	}

	mounted := make(map[string]bool)
	for _, route := range r.Routes() {
		mounted[route.Method+" "+route.Path] = true
	}
	for _, e := range expected {
		assert.True(t, mounted[e.method+" "+e.path], "missing route %s %s", e.method, e.path)
	}
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok"`)
	})

	t.Run("degraded when database unreachable", func(t *testing.T) {
		r := newTestRouter(errors.New("connection refused"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "degraded")
	})
}

func TestUnknownRouteReturns404(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
