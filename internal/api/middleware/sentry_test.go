package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestLog struct {
	metrics.Nop
	routes   []string
	statuses []int
}

func (r *requestLog) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, _ time.Duration) {
	r.routes = append(r.routes, endpoint)
	r.statuses = append(r.statuses, statusCode)
}

func newRouter(rec metrics.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoverWithSentry())
	r.Use(RequestTracking(rec))
	r.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func TestRequestTrackingUsesRouteTemplate(t *testing.T) {
	rec := &requestLog{}
	r := newRouter(rec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.Len(t, rec.routes, 1)
	assert.Equal(t, "/items/:id", rec.routes[0])
	assert.Equal(t, http.StatusOK, rec.statuses[0])
}

func TestRequestTrackingUnmatchedRoute(t *testing.T) {
	rec := &requestLog{}
	r := newRouter(rec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, rec.routes, 1)
	assert.Equal(t, "unmatched", rec.routes[0])
}

func TestRecoverWithSentry(t *testing.T) {
	rec := &requestLog{}
	r := newRouter(rec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestRequestTrackingNilRecorder(t *testing.T) {
	r := newRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
