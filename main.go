package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/api"
	"github.com/Conceptual-Machines/story-api/internal/config"
	"github.com/Conceptual-Machines/story-api/internal/llm"
	"github.com/Conceptual-Machines/story-api/internal/logger"
	"github.com/Conceptual-Machines/story-api/internal/metrics"
	"github.com/Conceptual-Machines/story-api/internal/observability"
	"github.com/Conceptual-Machines/story-api/internal/secrets"
	"github.com/Conceptual-Machines/story-api/internal/session"
	"github.com/Conceptual-Machines/story-api/internal/story"
	"github.com/Conceptual-Machines/story-api/internal/styles"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	sentryFlushTimeout = 2 * time.Second
	redacted           = "[REDACTED]"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "story-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
					event.Request.Cookies = ""
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	catalog := loadCatalog(cfg)

	resolver := secrets.NewResolver(secrets.NewFileStore(cfg.SecretsFile))
	reportCredentials(catalog, resolver)

	recorder := metrics.Multi{metrics.NewSentryMetrics(cfg.SentryDSN != "")}

	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	} else {
		recorder = append(recorder, cloudwatch)
	}

	var prom *metrics.Prometheus
	if cfg.PrometheusEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom = metrics.NewPrometheus(registry)
		recorder = append(recorder, prom)
	}

	observability.InitializeLangfuse(ctx, cfg)

	stories := story.NewService(catalog, llm.NewProviderFactory(cfg.GroqBaseURL), resolver, recorder)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(cfg, api.Dependencies{
		Stories:     stories,
		Sessions:    session.NewManager(cfg),
		Credentials: resolver,
		Recorder:    recorder,
		Prometheus:  prom,
	}, GetVersion())

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// loadCatalog exits on an invalid catalog and warns about retired models
func loadCatalog(cfg *config.Config) *styles.Catalog {
	catalog, err := styles.Load(cfg.StylesFile)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to load style catalog:", err)
	}
	if err := catalog.Validate(); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Invalid style catalog:", err)
	}

	for _, style := range catalog.Deprecated() {
		fields := logger.Fields{
			"style": style.Label,
			"model": style.Model,
			"note":  styles.RetiredModels[style.Model],
		}
		logger.Warn("Narrative style points at a retired model", fields)
		logger.LogToSentry(sentry.LevelWarning, "Narrative style points at a retired model", fields)
	}

	log.Printf("📚 Loaded %d narrative styles", catalog.Len())
	return catalog
}

func reportCredentials(catalog *styles.Catalog, resolver *secrets.Resolver) {
	seen := map[string]bool{}
	for _, style := range catalog.Styles() {
		if seen[style.Provider] {
			continue
		}
		seen[style.Provider] = true

		key, _ := llm.CredentialKey(style.Provider)
		if _, source, ok := resolver.Lookup(key); ok {
			logger.Info("Credential resolved", logger.Fields{"provider": style.Provider, "source": string(source)})
		} else {
			logger.Warn("Credential missing, generation will be refused", logger.Fields{"provider": style.Provider, "key": key})
		}
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = redacted
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
