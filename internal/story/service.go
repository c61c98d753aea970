package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/llm"
	"github.com/Conceptual-Machines/story-api/internal/logger"
	"github.com/Conceptual-Machines/story-api/internal/metrics"
	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/Conceptual-Machines/story-api/internal/observability"
	"github.com/Conceptual-Machines/story-api/internal/prompt"
	"github.com/Conceptual-Machines/story-api/internal/styles"
)

// ErrMissingCredential is shown to the user verbatim
var ErrMissingCredential = errors.New("Configuration Error: API Key is missing.") //nolint:staticcheck // user-facing text

// ProviderSource builds a completion provider for a resolved credential
type ProviderSource interface {
	GetProvider(ctx context.Context, providerName, apiKey string) (llm.Provider, error)
}

// CredentialResolver finds API keys by name
type CredentialResolver interface {
	Resolve(key string) (string, bool)
}

// Service turns story parameters into a finished manuscript
type Service struct {
	catalog     *styles.Catalog
	prompts     *prompt.Builder
	providers   ProviderSource
	credentials CredentialResolver
	recorder    metrics.Recorder
}

// NewService wires the story pipeline. A nil recorder disables metrics.
func NewService(
	catalog *styles.Catalog,
	providers ProviderSource,
	credentials CredentialResolver,
	recorder metrics.Recorder,
) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		catalog:     catalog,
		prompts:     prompt.NewPromptBuilder(),
		providers:   providers,
		credentials: credentials,
		recorder:    recorder,
	}
}

// Catalog returns the narrative styles the service can serve
func (s *Service) Catalog() *styles.Catalog {
	return s.catalog
}

// Generate runs one completion for params.
//
// A missing credential returns ErrMissingCredential before any provider is
// built. Failures during the call are not returned: they become the text of
// a failed Result so they can be displayed and downloaded like a story.
func (s *Service) Generate(ctx context.Context, params models.StoryParams) (models.Result, error) {
	params = params.Normalize()
	style := s.catalog.Resolve(params.Style)

	fields := logger.Fields{
		"style":    style.Label,
		"provider": style.Provider,
		"model":    style.Model,
	}

	keyName, _ := llm.CredentialKey(style.Provider)
	apiKey, ok := s.credentials.Resolve(keyName)
	if !ok {
		fields["credential"] = keyName
		logger.Warn("Story generation refused: credential missing", fields)
		s.recorder.RecordConfigError(ctx, style.Provider)
		return models.NoResult(), ErrMissingCredential
	}

	systemPrompt, err := s.prompts.BuildSystemPrompt()
	if err != nil {
		return models.NoResult(), fmt.Errorf("failed to load system prompt: %w", err)
	}
	userPrompt := s.prompts.BuildUserPrompt(params)

	trace := observability.GetClient().StartTrace(ctx, "story.generate", map[string]interface{}{
		"style":  style.Label,
		"genre":  params.Genre,
		"tone":   params.Tone,
		"length": params.Length,
	})
	defer trace.Finish()
	span := trace.Generation("completion", style.Model, userPrompt, map[string]interface{}{
		"provider": style.Provider,
	})

	start := time.Now()
	resp, err := s.complete(ctx, style, apiKey, llm.NewCompletionRequest(style.Model, systemPrompt, userPrompt))
	duration := time.Since(start)

	record := metrics.Generation{
		Provider: style.Provider,
		Model:    style.Model,
		Style:    style.Label,
		Duration: duration,
		Success:  err == nil,
	}

	if err != nil {
		span.Fail(err)
		s.recorder.RecordGeneration(ctx, record)
		logger.Error("Story generation failed", err, fields)
		return models.FailedResult(err, style.Label, style.Model), nil
	}

	span.Succeed(resp)
	record.InputTokens = resp.Usage.InputTokens
	record.OutputTokens = resp.Usage.OutputTokens
	record.TotalTokens = resp.Usage.TotalTokens
	s.recorder.RecordGeneration(ctx, record)

	fields["total_tokens"] = resp.Usage.TotalTokens
	fields["cost"] = observability.FormatCost(observability.CalculateCost(style.Model, resp.Usage))
	logger.LogCompletion(ctx, style.Provider, style.Model, duration, fields)

	return models.NewResult(resp.Text, style.Label, style.Model), nil
}

func (s *Service) complete(
	ctx context.Context,
	style styles.Style,
	apiKey string,
	req *llm.CompletionRequest,
) (*llm.CompletionResponse, error) {
	provider, err := s.providers.GetProvider(ctx, style.Provider, apiKey)
	if err != nil {
		return nil, err
	}
	return provider.Complete(ctx, req)
}
