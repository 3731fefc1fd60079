package app

import (
	"context"
	"net/http"
	"time"

	"go-employee/internal/config"
	"go-employee/internal/middleware"
	"go-employee/internal/observability"
	"go-employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	// Store labels metrics and traces: "postgres" or "redis".
	Store string
	// Ping backs /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
	// Register mounts feature routes on the /api group.
	Register func(api *gin.RouterGroup)
}

const healthTimeout = 2 * time.Second

// NewRouter builds the engine shared by both HTTP services. Health and metrics
// endpoints sit outside /api so they skip rate limiting and auth.
func NewRouter(cfg *config.Config, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg, opts.Store)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.Otel.ServiceName+"-"+opts.Store),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.ContextLogger(logger),
		middleware.Metrics(metrics),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				logger.Warn("health check failed", zap.String("store", opts.Store), zap.Error(err))
				response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Storage is unreachable", nil)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": opts.Store})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Auth runs first so the limiter can key on the authenticated user.
	api := r.Group("/api")
	api.Use(
		middleware.AuthMiddleware(cfg.Auth.JWTSecret),
		middleware.RateLimit(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	)
	if opts.Register != nil {
		opts.Register(api)
	}

	return r
}
