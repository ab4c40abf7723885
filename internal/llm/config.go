// Package llm provides the model client abstraction shared by the extraction and
// analysis adapters, with a cloud (Gemini) and a local (OpenAI-compatible) backend.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short summaries
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction and analysis
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or image-heavy resumes
	TierAdvanced ModelTier = "advanced"
)

// Provider represents a model backend
type Provider string

// Provider constants define supported backends
const (
	// ProviderGemini is the Google Gemini API with enforced JSON schemas
	ProviderGemini Provider = "gemini"
	// ProviderLocal is an OpenAI-compatible endpoint such as Ollama
	ProviderLocal Provider = "local"
)

// DefaultLocalModel is the model pulled by the local development setup
const DefaultLocalModel = "llama3.2:3b"

// DefaultLocalBaseURL is Ollama's OpenAI-compatible endpoint
const DefaultLocalBaseURL = "http://localhost:11434/v1/"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	APIKey      string  // Gemini API key; optional for local endpoints
	BaseURL     string  // local provider only
	Temperature float32 // zero selects the default
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultLocalConfig returns a configuration that sends every tier to one local model.
func DefaultLocalConfig(baseURL, model string) *Config {
	if baseURL == "" {
		baseURL = DefaultLocalBaseURL
	}
	if model == "" {
		model = DefaultLocalModel
	}
	return &Config{
		Provider: ProviderLocal,
		BaseURL:  baseURL,
		Models: map[ModelTier]string{
			TierLite:     model,
			TierStandard: model,
			TierAdvanced: model,
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

func (c *Config) temperature() float32 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return 0.1 // low temperature for consistent structured output
}
