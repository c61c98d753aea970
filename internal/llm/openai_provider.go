package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1/"

const maxErrorPreviewChars = 500

// OpenAIProvider implements the Provider interface using the Chat Completions API.
// It also serves Groq, which speaks the same protocol under a different base URL.
type OpenAIProvider struct {
	client *openai.Client
	name   string
}

// NewOpenAIProvider creates a provider against api.openai.com
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	return newChatProvider(ProviderOpenAI, apiKey, opts...)
}

// NewGroqProvider creates a provider against Groq's OpenAI-compatible API
func NewGroqProvider(apiKey, baseURL string, opts ...option.RequestOption) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	opts = append([]option.RequestOption{option.WithBaseURL(baseURL)}, opts...)
	return newChatProvider(ProviderGroq, apiKey, opts...)
}

func newChatProvider(name, apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(append(base, opts...)...)
	return &OpenAIProvider{
		client: &client,
		name:   name,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete performs a single chat completion call
func (p *OpenAIProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	startTime := time.Now()
	log.Printf("📖 %s COMPLETION REQUEST STARTED (Model: %s)", p.name, request.Model)

	transaction := sentry.StartTransaction(ctx, p.name+".complete")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", p.name)

	params := p.buildRequestParams(request)

	span := transaction.StartChild(p.name + ".api_call")
	resp, err := p.client.Chat.Completions.New(ctx, params)
	apiDuration := time.Since(startTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ %s REQUEST FAILED after %v: %s", p.name, apiDuration, truncate(err.Error(), maxErrorPreviewChars))
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	log.Printf("⏱️  %s API CALL COMPLETED in %v", p.name, apiDuration)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("%s: %w", p.name, ErrEmptyCompletion)
	}

	usage := Usage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
	}
	log.Printf("📊 USAGE: input=%d, output=%d, total=%d", usage.InputTokens, usage.OutputTokens, usage.TotalTokens)

	transaction.SetTag("success", "true")
	return &CompletionResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: request.Model,
		Usage: usage,
	}, nil
}

// buildRequestParams maps a CompletionRequest onto the Chat Completions schema
func (p *OpenAIProvider) buildRequestParams(request *CompletionRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.SystemPrompt),
			openai.UserMessage(request.UserPrompt),
		},
		Temperature: openai.Float(request.Temperature),
		MaxTokens:   openai.Int(request.MaxTokens),
	}
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
