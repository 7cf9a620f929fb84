package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

const (
	healthPath  = "/api/v1/health"
	readyPath   = "/api/v1/ready"
	metricsPath = "/api/v1/metrics"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// RouterDeps carries what NewRouter needs.
type RouterDeps struct {
	Config      config.Config
	Routes      []RouteRegistrar
	Checks      map[string]ReadinessCheck
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	limits := deps.Config.RateLimits
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(healthPath, readyPath, metricsPath),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.RouteClassAnalyze: {Rate: limits.AnalyzeRPS, Burst: limits.AnalyzeBurst},
				middleware.RouteClassRead:    {Rate: limits.ReadRPS, Burst: limits.ReadBurst},
			},
			GroupFor: rateLimitClass,
			Limiter:  deps.RateLimiter,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	api.GET("/ready", readiness(deps.Checks))
	api.GET("/metrics", metrics.Handler())

	for _, routes := range deps.Routes {
		if routes != nil {
			routes.RegisterRoutes(api)
		}
	}
	return r
}

// rateLimitClass exempts probes and scrapes from the budgets.
func rateLimitClass(c *gin.Context) string {
	switch c.FullPath() {
	case healthPath, readyPath, metricsPath:
		return "EXEMPT"
	}
	return middleware.ClassForMethod(c)
}

func readiness(checks map[string]ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, gin.H{"ok": healthy, "checks": status})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
