package api

import (
	"github.com/Conceptual-Machines/story-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/story-api/internal/api/middleware"
	"github.com/Conceptual-Machines/story-api/internal/config"
	"github.com/Conceptual-Machines/story-api/internal/metrics"
	"github.com/Conceptual-Machines/story-api/internal/session"
	"github.com/Conceptual-Machines/story-api/internal/story"
	webhandlers "github.com/Conceptual-Machines/story-api/internal/web/handlers"
	"github.com/Conceptual-Machines/story-api/internal/web/templates"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the routes are built on
type Dependencies struct {
	Stories     *story.Service
	Sessions    *session.Manager
	Credentials handlers.CredentialChecker
	Recorder    metrics.Recorder

	// Prometheus is optional; /metrics is only mounted when set
	Prometheus *metrics.Prometheus
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	catalog := deps.Stories.Catalog()

	// Health check
	healthHandler := handlers.NewHealthHandler(catalog, deps.Credentials)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoints
	metricsHandler := handlers.NewMetricsHandler(version, deps.Sessions, catalog.Len())
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	if cfg.PrometheusEnabled && deps.Prometheus != nil {
		router.GET("/metrics", gin.WrapH(deps.Prometheus.Handler()))
	}

	// Web pages
	webHandler := webhandlers.NewWebHandler(deps.Stories, deps.Sessions)
	router.GET("/", webHandler.Home)
	router.POST("/generate", webHandler.Generate)
	router.GET(templates.DownloadPath, webHandler.Download)

	// JSON API
	v1 := router.Group("/api/v1")
	{
		storyHandler := handlers.NewStoryHandler(deps.Stories)
		v1.POST("/stories", storyHandler.Generate)
		v1.POST("/prompts/preview", storyHandler.PreviewPrompt)
		v1.GET("/styles", storyHandler.ListStyles)
		v1.GET("/options", storyHandler.Options)
	}

	return router
}
