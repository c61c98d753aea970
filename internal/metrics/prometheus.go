package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "story_api"

// Prometheus exposes request and generation metrics for scraping
type Prometheus struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationTotal    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationTokens   *prometheus.CounterVec

	configErrors *prometheus.CounterVec
}

// NewPrometheus registers the collectors on reg
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: promNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"path"},
		),
		generationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "story",
				Name:      "generation_total",
				Help:      "Total number of story completions by outcome",
			},
			[]string{"provider", "style", "status"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: promNamespace,
				Subsystem: "story",
				Name:      "generation_duration_seconds",
				Help:      "Story completion duration in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"provider"},
		),
		generationTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "story",
				Name:      "tokens_total",
				Help:      "Tokens consumed by story completions",
			},
			[]string{"model", "direction"},
		),
		configErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "story",
				Name:      "config_errors_total",
				Help:      "Generations refused because a credential was missing",
			},
			[]string{"provider"},
		),
	}
}

// RecordAPIRequest implements Recorder
func (p *Prometheus) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	p.httpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordGeneration implements Recorder
func (p *Prometheus) RecordGeneration(_ context.Context, g Generation) {
	p.generationTotal.WithLabelValues(g.Provider, g.Style, g.Outcome()).Inc()
	p.generationDuration.WithLabelValues(g.Provider).Observe(g.Duration.Seconds())
	if g.Success {
		p.generationTokens.WithLabelValues(g.Model, "input").Add(float64(g.InputTokens))
		p.generationTokens.WithLabelValues(g.Model, "output").Add(float64(g.OutputTokens))
	}
}

// RecordConfigError implements Recorder
func (p *Prometheus) RecordConfigError(_ context.Context, provider string) {
	p.configErrors.WithLabelValues(provider).Inc()
}

// Handler serves the registry in the Prometheus text format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
