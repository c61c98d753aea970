package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records metrics as spans on the active Sentry transaction
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics recorder
func NewSentryMetrics(enabled bool) *SentryMetrics {
	return &SentryMetrics{enabled: enabled}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", strconv.Itoa(statusCode))
	span.SetTag("success", strconv.FormatBool(statusCode < successStatusCodeThreshold))
	span.SetData("duration_ms", duration.Milliseconds())

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGeneration tags the request transaction with the completion outcome and usage
func (m *SentryMetrics) RecordGeneration(ctx context.Context, g Generation) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("story.provider", g.Provider)
		transaction.SetTag("story.model", g.Model)
		transaction.SetTag("story.style", g.Style)
		transaction.SetData("story.total_tokens", g.TotalTokens)
	}

	span := sentry.StartSpan(ctx, "story.generation")
	defer span.Finish()

	span.SetTag("model", g.Model)
	span.SetTag("success", strconv.FormatBool(g.Success))
	span.SetData("duration_ms", g.Duration.Milliseconds())
	span.SetData("input_tokens", g.InputTokens)
	span.SetData("output_tokens", g.OutputTokens)
	span.SetData("total_tokens", g.TotalTokens)

	if g.Success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Story Generation: %s", g.Outcome())
}

// RecordConfigError leaves a breadcrumb for a refused generation
func (m *SentryMetrics) RecordConfigError(ctx context.Context, provider string) {
	if !m.enabled {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "config",
		Message:  "missing credential",
		Level:    sentry.LevelWarning,
		Data:     map[string]interface{}{"provider": provider},
	}, nil)
}
