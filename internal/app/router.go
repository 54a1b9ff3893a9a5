package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/nbportfolio/site/handlers"
	"github.com/nbportfolio/site/pkg/metrics"
	"github.com/nbportfolio/site/pkg/middleware"
)

// NewRouter builds the HTTP handler: health, readiness, metrics, swagger,
// static assets and the site API, wrapped in CORS. reg receives the
// collectors; nil skips registration.
func NewRouter(s *Server, reg prometheus.Registerer, gatherer prometheus.Gatherer) http.Handler {
	cfg := s.Config
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready, deps := s.Ready(c.Request.Context())
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "backend": s.Backend, "deps": deps, "uptime": fmt.Sprintf("%s", s.Uptime().Round(time.Second))})
	})

	if reg != nil {
		metrics.RegisterCollectors(reg)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)
	handlers.RegisterStatic(r, cfg.Local.AssetsDir)
	handlers.NewAuthHandler(s.Sessions).Register(r)

	guard := []gin.HandlerFunc{middleware.AdminMiddleware(cfg.Admin.Password, s.Sessions)}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && s.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			guard = append(guard, middleware.RedisRateLimitMiddleware(s.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			guard = append(guard, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handlers.NewSiteHandler(s.Content, s.Projects, s.Blobs).Register(r, guard...)

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Pass"},
		ExposedHeaders: []string{"Content-Length", "Retry-After"},
	}).Handler(r)
}
