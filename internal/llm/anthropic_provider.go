package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/getsentry/sentry-go"
)

// AnthropicProvider implements the Provider interface using the Messages API
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates a new Claude provider
func NewAnthropicProvider(apiKey string, opts ...option.RequestOption) *AnthropicProvider {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(append(base, opts...)...),
	}
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// Complete performs a single Messages.New call
func (p *AnthropicProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	startTime := time.Now()
	log.Printf("📖 ANTHROPIC COMPLETION REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "anthropic.complete")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", ProviderAnthropic)

	span := transaction.StartChild("anthropic.api_call")
	message, err := p.client.Messages.New(ctx, p.buildRequestParams(request))
	apiDuration := time.Since(startTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ ANTHROPIC REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	log.Printf("⏱️  ANTHROPIC API CALL COMPLETED in %v", apiDuration)

	if len(message.Content) == 0 || message.Content[0].Text == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyCompletion)
	}

	usage := Usage{
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	transaction.SetTag("success", "true")
	return &CompletionResponse{
		Text:  message.Content[0].Text,
		Model: request.Model,
		Usage: usage,
	}, nil
}

func (p *AnthropicProvider) buildRequestParams(request *CompletionRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(request.Model)),
		MaxTokens:   anthropic.F(request.MaxTokens),
		Temperature: anthropic.F(request.Temperature),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(request.SystemPrompt),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.UserPrompt)),
		}),
	}
}
