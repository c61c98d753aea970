package story

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/llm"
	"github.com/Conceptual-Machines/story-api/internal/metrics"
	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/Conceptual-Machines/story-api/internal/secrets"
	"github.com/Conceptual-Machines/story-api/internal/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	calls    int
	requests []*llm.CompletionRequest
	resp     *llm.CompletionResponse
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.calls++
	m.requests = append(m.requests, req)
	return m.resp, m.err
}

type mockSource struct {
	provider *mockProvider
	err      error
	builds   []string
	keys     []string
}

func (m *mockSource) GetProvider(_ context.Context, providerName, apiKey string) (llm.Provider, error) {
	m.builds = append(m.builds, providerName)
	m.keys = append(m.keys, apiKey)
	if m.err != nil {
		return nil, m.err
	}
	return m.provider, nil
}

type recordingMetrics struct {
	metrics.Nop
	generations []metrics.Generation
	configErrs  []string
}

func (r *recordingMetrics) RecordGeneration(_ context.Context, g metrics.Generation) {
	r.generations = append(r.generations, g)
}

func (r *recordingMetrics) RecordConfigError(_ context.Context, provider string) {
	r.configErrs = append(r.configErrs, provider)
}

func testCatalog() *styles.Catalog {
	return styles.New(
		styles.Style{Label: "Cinematic", Provider: llm.ProviderGroq, Model: "llama-3.3-70b-versatile"},
		styles.Style{Label: "Polished", Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"},
	)
}

func envOnly(values map[string]string) *secrets.Resolver {
	return secrets.NewResolver(nil).WithEnv(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func noirParams() models.StoryParams {
	p := models.DefaultStoryParams()
	p.Genre = "Noir"
	p.Tone = "Bleak"
	p.Length = "Flash"
	p.Characters = []models.Character{{Name: "Vale", Role: "Detective"}}
	p.Setting = "Rain-soaked port"
	p.Style = "Cinematic"
	return p
}

func TestGenerateSuccess(t *testing.T) {
	provider := &mockProvider{resp: &llm.CompletionResponse{
		Text:  "The rain never stopped.",
		Model: "llama-3.3-70b-versatile",
		Usage: llm.Usage{InputTokens: 80, OutputTokens: 20, TotalTokens: 100},
	}}
	source := &mockSource{provider: provider}
	rec := &recordingMetrics{}
	svc := NewService(testCatalog(), source, envOnly(map[string]string{"GROQ_API_KEY": "gsk-test"}), rec)

	result, err := svc.Generate(context.Background(), noirParams())
	require.NoError(t, err)

	assert.True(t, result.Ready())
	assert.False(t, result.Failed())
	assert.Equal(t, "The rain never stopped.", result.Text())
	assert.Equal(t, "Cinematic", result.Style())
	assert.Equal(t, "llama-3.3-70b-versatile", result.Model())

	assert.Equal(t, []string{llm.ProviderGroq}, source.builds)
	assert.Equal(t, []string{"gsk-test"}, source.keys)
	require.Equal(t, 1, provider.calls)

	req := provider.requests[0]
	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	assert.Equal(t, "You are a master storyteller. Output only the story content.", req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, "Write a flash story in the Noir genre. Tone: bleak.")
	assert.Contains(t, req.UserPrompt, "Key Characters: Vale (Detective).")
	assert.InDelta(t, 0.8, req.Temperature, 1e-9)
	assert.Equal(t, int64(4096), req.MaxTokens)

	require.Len(t, rec.generations, 1)
	assert.True(t, rec.generations[0].Success)
	assert.Equal(t, 100, rec.generations[0].TotalTokens)
	assert.Empty(t, rec.configErrs)
}

func TestGenerateMissingCredentialMakesNoCall(t *testing.T) {
	provider := &mockProvider{}
	source := &mockSource{provider: provider}
	rec := &recordingMetrics{}
	svc := NewService(testCatalog(), source, envOnly(nil), rec)

	result, err := svc.Generate(context.Background(), noirParams())

	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, "Configuration Error: API Key is missing.", err.Error())
	assert.False(t, result.Ready())
	assert.Empty(t, source.builds)
	assert.Zero(t, provider.calls)
	assert.Equal(t, []string{llm.ProviderGroq}, rec.configErrs)
	assert.Empty(t, rec.generations)
}

func TestGenerateCredentialFromEnvFallback(t *testing.T) {
	provider := &mockProvider{resp: &llm.CompletionResponse{Text: "ok"}}
	source := &mockSource{provider: provider}
	store := secrets.MapStore{"OTHER_KEY": "x"}
	resolver := secrets.NewResolver(store).WithEnv(func(key string) (string, bool) {
		if key == "GROQ_API_KEY" {
			return "from-env", true
		}
		return "", false
	})
	svc := NewService(testCatalog(), source, resolver, nil)

	result, err := svc.Generate(context.Background(), noirParams())
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text())
	assert.Equal(t, []string{"from-env"}, source.keys)
}

func TestGenerateProviderErrorBecomesText(t *testing.T) {
	provider := &mockProvider{err: errors.New("429 Too Many Requests")}
	source := &mockSource{provider: provider}
	rec := &recordingMetrics{}
	svc := NewService(testCatalog(), source, envOnly(map[string]string{"GROQ_API_KEY": "k"}), rec)

	result, err := svc.Generate(context.Background(), noirParams())
	require.NoError(t, err)

	assert.True(t, result.Ready())
	assert.True(t, result.Failed())
	assert.Equal(t, "Error: 429 Too Many Requests", result.Text())
	assert.Equal(t, 1, provider.calls)
	require.Len(t, rec.generations, 1)
	assert.False(t, rec.generations[0].Success)
}

func TestGenerateProviderConstructionErrorBecomesText(t *testing.T) {
	source := &mockSource{err: errors.New("invalid key format")}
	svc := NewService(testCatalog(), source, envOnly(map[string]string{"GROQ_API_KEY": "k"}), nil)

	result, err := svc.Generate(context.Background(), noirParams())
	require.NoError(t, err)
	assert.Equal(t, "Error: invalid key format", result.Text())
}

func TestGenerateUnknownStyleUsesDefault(t *testing.T) {
	provider := &mockProvider{resp: &llm.CompletionResponse{Text: "story"}}
	source := &mockSource{provider: provider}
	svc := NewService(testCatalog(), source, envOnly(map[string]string{"GROQ_API_KEY": "k"}), nil)

	params := noirParams()
	params.Style = "Retired Style"
	result, err := svc.Generate(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "Cinematic", result.Style())
	assert.Equal(t, "llama-3.3-70b-versatile", provider.requests[0].Model)
}

func TestGenerateUsesStyleProviderCredential(t *testing.T) {
	provider := &mockProvider{resp: &llm.CompletionResponse{Text: "story"}}
	source := &mockSource{provider: provider}
	// only the groq key is present, the openai style must be refused
	svc := NewService(testCatalog(), source, envOnly(map[string]string{"GROQ_API_KEY": "k"}), nil)

	params := noirParams()
	params.Style = "Polished"
	_, err := svc.Generate(context.Background(), params)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Zero(t, provider.calls)
}

func TestGenerateStampsResult(t *testing.T) {
	provider := &mockProvider{resp: &llm.CompletionResponse{Text: "story"}}
	svc := NewService(testCatalog(), &mockSource{provider: provider}, envOnly(map[string]string{"GROQ_API_KEY": "k"}), nil)

	before := time.Now().UTC()
	result, err := svc.Generate(context.Background(), noirParams())
	require.NoError(t, err)
	assert.False(t, result.GeneratedAt().Before(before))
	assert.Equal(t, 2, svc.Catalog().Len())
}
