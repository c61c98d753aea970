package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name         string
	completeFunc func(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, request)
	}
	return &CompletionResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	var p Provider = &MockProvider{name: "mock"}
	assert.Equal(t, "mock", p.Name())
}

func TestNewCompletionRequest(t *testing.T) {
	req := NewCompletionRequest("llama-3.3-70b-versatile", "system", "user")

	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	assert.Equal(t, "system", req.SystemPrompt)
	assert.Equal(t, "user", req.UserPrompt)
	assert.InDelta(t, 0.8, req.Temperature, 1e-9)
	assert.Equal(t, int64(4096), req.MaxTokens)
}

func TestCredentialKey(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		ok       bool
	}{
		{ProviderGroq, "GROQ_API_KEY", true},
		{ProviderOpenAI, "OPENAI_API_KEY", true},
		{ProviderGemini, "GEMINI_API_KEY", true},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", true},
		{"ollama", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			key, ok := CredentialKey(tt.provider)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, key)
			assert.Equal(t, tt.ok, KnownProvider(tt.provider))
		})
	}
}

func TestProvidersAreAllKnown(t *testing.T) {
	for _, name := range Providers() {
		assert.True(t, KnownProvider(name), name)
	}
}

func TestMockProviderComplete(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		completeFunc: func(_ context.Context, request *CompletionRequest) (*CompletionResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			return &CompletionResponse{Text: "Once upon a time", Usage: Usage{TotalTokens: 7}}, nil
		},
	}

	resp, err := mock.Complete(context.Background(), NewCompletionRequest("test-model", "s", "u"))
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "Once upon a time", resp.Text)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
}

func TestProviderFactory(t *testing.T) {
	factory := NewProviderFactory("")
	ctx := context.Background()

	t.Run("groq", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "groq", "gsk_test")
		require.NoError(t, err)
		assert.Equal(t, ProviderGroq, p.Name())
	})

	t.Run("openai", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "OpenAI", "sk-test")
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, p.Name())
	})

	t.Run("gemini", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "gemini", "test-key")
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, p.Name())
	})

	t.Run("anthropic", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "anthropic", "sk-ant-test")
		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, p.Name())
	})

	t.Run("missing key", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "groq", "")
		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "API key not configured")
	})

	t.Run("unknown provider", func(t *testing.T) {
		p, err := factory.GetProvider(ctx, "ollama", "key")
		require.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
}
