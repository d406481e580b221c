package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"lesson-generator/pkg/telemetry"
	"time"
)

type RouterConfig struct {
	Logger           zerolog.Logger
	AllowedOrigins   []string
	LessonHandler    *LessonHandler
	TranspileHandler *TranspileHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(telemetry.ServiceName))
	r.Use(requestLogger(cfg.Logger))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	addHealth(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h := cfg.LessonHandler; h != nil {
		lessons := r.Group("/lessons")
		lessons.POST("/generate", h.Generate)
		lessons.GET("", h.List)
		lessons.GET("/:id", h.Get)
		lessons.DELETE("/:id", h.Delete)
		lessons.GET("/:id/render", h.Render)
		lessons.GET("/:id/events", h.Events)
	}

	if cfg.TranspileHandler != nil {
		r.POST("/transpile", cfg.TranspileHandler.Transpile)
	}

	return r
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

// requestLogger attaches logger to the request context and logs one line per request.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
