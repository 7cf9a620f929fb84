package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-backend/internal/shared/config"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	rg.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func testConfig() config.Config {
	return config.Config{
		CORSAllowOrigin: []string{"http://localhost:5173"},
		RateLimits: config.RateLimits{
			AnalyzeRPS:   0.001,
			AnalyzeBurst: 1,
			ReadRPS:      100,
			ReadBurst:    100,
		},
	}
}

func serve(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterPublicEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig()})

	rec := serve(r, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(r, http.MethodGet, "/api/v1/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{
		Config: testConfig(),
		Checks: map[string]ReadinessCheck{
			"db":    func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
		},
	})

	rec := serve(r, http.MethodGet, "/api/v1/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db":"ok"`)
	assert.Contains(t, rec.Body.String(), "refused")
}

func TestRouterFeatureRoutesNeedIdentityAndRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig(), Routes: []RouteRegistrar{pingRoutes{}}})

	rec := serve(r, http.MethodGet, "/api/v1/ping", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := map[string]string{"X-User-Id": "u1"}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/ping", user).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/v1/ping", user).Code)

	rec = serve(r, http.MethodPost, "/api/v1/ping", user)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Reads keep their own budget.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/ping", user).Code)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
