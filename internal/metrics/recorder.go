package metrics

import (
	"context"
	"time"
)

// Generation describes one completion attempt
type Generation struct {
	Provider     string
	Model        string
	Style        string
	Duration     time.Duration
	Success      bool
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Outcome labels a generation attempt
func (g Generation) Outcome() string {
	if g.Success {
		return "success"
	}
	return "error"
}

// Recorder receives request and generation metrics
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, g Generation)
	RecordConfigError(ctx context.Context, provider string)
}

// Multi fans every call out to each recorder
type Multi []Recorder

func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (m Multi) RecordGeneration(ctx context.Context, g Generation) {
	for _, r := range m {
		r.RecordGeneration(ctx, g)
	}
}

func (m Multi) RecordConfigError(ctx context.Context, provider string) {
	for _, r := range m {
		r.RecordConfigError(ctx, provider)
	}
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration) {}
func (Nop) RecordGeneration(context.Context, Generation)                 {}
func (Nop) RecordConfigError(context.Context, string)                    {}
