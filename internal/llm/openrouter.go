package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps the friendly Gemini names onto OpenRouter slugs so
// per-purpose model selection works through the gateway too.
var openrouterModels = map[string]string{
	"gemini-flash": "google/gemini-3-flash-preview",
	"gemini-pro":   "google/gemini-3-pro-preview",
}

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, openrouterModels),
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	inner.aliases = openrouterModels

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
