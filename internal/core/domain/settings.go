package domain

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// AllEmbeddingProviders returns the supported embedding providers.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Cache stores computed embeddings in the local database.
	Cache bool
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// RedditSettings holds credentials for the Reddit API.
type RedditSettings struct {
	ClientID     string
	ClientSecret string
	UserAgent    string

	// RequestsPerMinute is the proactive request budget (default 60).
	RequestsPerMinute int
}

// IsConfigured returns true if app-only OAuth credentials are present.
func (r RedditSettings) IsConfigured() bool {
	return r.ClientID != "" && r.ClientSecret != ""
}

// DiscoverySettings holds the default run configuration.
type DiscoverySettings struct {
	Mode         WorkflowMode
	Keywords     []string
	Brand        BrandContext
	DesiredCount int
	RelatedCount int

	// Concurrency bounds parallel keyword fetches and candidate scoring (1 = sequential).
	Concurrency int

	// VocabularyPath points to a newline-delimited term list for keyword expansion.
	// Empty selects the built-in vocabulary.
	VocabularyPath string

	// Thresholds is nil when the mode's reference thresholds apply.
	Thresholds *RelevanceThresholds
}

// Request builds a DiscoveryRequest from the settings.
func (d DiscoverySettings) Request() DiscoveryRequest {
	return DiscoveryRequest{
		Mode:         d.Mode,
		Keywords:     d.Keywords,
		Brand:        d.Brand,
		DesiredCount: d.DesiredCount,
		RelatedCount: d.RelatedCount,
		Thresholds:   d.Thresholds,
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	Discovery DiscoverySettings
	Embedding EmbeddingSettings
	Reddit    RedditSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedding provider defaults to a local Ollama instance; Reddit
// credentials must be configured by the user.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Discovery: DiscoverySettings{
			Mode:         WorkflowManual,
			DesiredCount: DefaultDesiredCount,
			RelatedCount: DefaultRelatedCount,
			Concurrency:  1,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "all-minilm",
			Cache:    true,
		},
		Reddit: RedditSettings{
			UserAgent:         "threadscout/0.1",
			RequestsPerMinute: 60,
		},
	}
}

// EmbeddingDimensions returns known embedding model dimensions.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"all-minilm":             384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}

// DefaultEmbeddingModels returns the default model per provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}
