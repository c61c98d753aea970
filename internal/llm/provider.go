package llm

import (
	"context"
	"errors"
)

// Provider names as used in the style catalog
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Sampling settings shared by every story request
const (
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 4096
)

var (
	// ErrUnknownProvider is returned for provider names with no implementation
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrEmptyCompletion is returned when the model answers with no text
	ErrEmptyCompletion = errors.New("completion returned no content")
)

// credentialKeys maps each provider to the secret that holds its API key
var credentialKeys = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Provider defines the interface for hosted chat-completion backends.
// Implementations make exactly one call per Complete and never retry.
type Provider interface {
	// Complete sends the system and user prompts and returns the first completion's text
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "groq", "gemini")
	Name() string
}

// CompletionRequest contains all parameters needed for one completion
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int64
}

// NewCompletionRequest builds a request with the default sampling settings
func NewCompletionRequest(model, systemPrompt, userPrompt string) *CompletionRequest {
	return &CompletionRequest{
		Model:        model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
	}
}

// Usage is the token accounting reported by the provider
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// CompletionResponse contains the result from the LLM
type CompletionResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// CredentialKey returns the secret name holding the API key for provider
func CredentialKey(provider string) (string, bool) {
	key, ok := credentialKeys[provider]
	return key, ok
}

// KnownProvider reports whether provider has an implementation
func KnownProvider(provider string) bool {
	_, ok := credentialKeys[provider]
	return ok
}

// Providers lists the supported provider names
func Providers() []string {
	return []string{ProviderGroq, ProviderOpenAI, ProviderGemini, ProviderAnthropic}
}
