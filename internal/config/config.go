package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	EnvironmentProduction = "production"

	defaultSessionTTL   = 24 * time.Hour
	defaultGroqBaseURL  = "https://api.groq.com/openai/v1/"
	defaultSecretsFile  = ".secrets.yaml"
	defaultSessionName  = "story_session"
	defaultLangfuseHost = "https://cloud.langfuse.com"
)

// Config holds the application configuration.
// Provider API keys are not read here; they go through the secrets resolver
// so a secrets file can take precedence over the environment.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Credentials and catalog
	SecretsFile string // YAML secrets file, checked before env vars
	StylesFile  string // Optional override for the narrative style catalog
	GroqBaseURL string // OpenAI-compatible endpoint for Groq

	// Sessions
	SessionSecret string
	SessionName   string
	SessionTTL    time.Duration

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
	PrometheusEnabled bool
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		SecretsFile:       getEnv("SECRETS_FILE", defaultSecretsFile),
		StylesFile:        getEnv("STYLES_FILE", ""),
		GroqBaseURL:       getEnv("GROQ_BASE_URL", defaultGroqBaseURL),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionName:       getEnv("SESSION_NAME", defaultSessionName),
		SessionTTL:        getDuration("SESSION_TTL", defaultSessionTTL),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", defaultLangfuseHost),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		PrometheusEnabled: getBool("PROMETHEUS_ENABLED", true),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %t", key, raw, defaultValue)
		return defaultValue
	}
	return b
}
