package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory creates providers by name with a caller-supplied API key.
// Keys are resolved per request so rotated secrets take effect immediately.
type ProviderFactory struct {
	groqBaseURL string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(groqBaseURL string) *ProviderFactory {
	return &ProviderFactory{
		groqBaseURL: groqBaseURL,
	}
}

// GetProvider returns the provider registered under providerName
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName, apiKey string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	if !KnownProvider(name) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnknownProvider, providerName, strings.Join(Providers(), ", "))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key not configured", name)
	}

	switch name {
	case ProviderGroq:
		return NewGroqProvider(apiKey, f.groqBaseURL), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey), nil
	case ProviderGemini:
		provider, err := NewGeminiProvider(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return NewAnthropicProvider(apiKey), nil
	}
}
