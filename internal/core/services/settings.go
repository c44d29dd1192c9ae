package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMode           = "discovery.mode"
	keyKeywords       = "discovery.keywords"
	keyDesiredCount   = "discovery.desired_count"
	keyRelatedCount   = "discovery.related_count"
	keyConcurrency    = "discovery.concurrency"
	keyVocabulary     = "discovery.vocabulary"
	keyTargetCustomer = "brand.target_customer"
	keyTopics         = "brand.intersection_topics"
	keyMinPosts       = "thresholds.min_matched_posts"
	keyMinRatio       = "thresholds.min_ratio"
	keySemantic       = "thresholds.semantic_similarity"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedCache     = "embedding.cache"
	keyRedditID       = "reddit.client_id"
	keyRedditSecret   = "reddit.client_secret"
	keyRedditAgent    = "reddit.user_agent"
	keyRedditRPM      = "reddit.requests_per_minute"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKinds lists every key accepted by Set and how its value is parsed.
var settingKinds = map[string]valueKind{
	keyMode:           kindString,
	keyKeywords:       kindList,
	keyDesiredCount:   kindInt,
	keyRelatedCount:   kindInt,
	keyConcurrency:    kindInt,
	keyVocabulary:     kindString,
	keyTargetCustomer: kindString,
	keyTopics:         kindString,
	keyMinPosts:       kindInt,
	keyMinRatio:       kindFloat,
	keySemantic:       kindFloat,
	keyEmbedProvider:  kindString,
	keyEmbedModel:     kindString,
	keyEmbedBaseURL:   kindString,
	keyEmbedAPIKey:    kindString,
	keyEmbedCache:     kindBool,
	keyRedditID:       kindString,
	keyRedditSecret:   kindString,
	keyRedditAgent:    kindString,
	keyRedditRPM:      kindInt,
}

// SettingKeys returns every config key accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	mode := s.getMode(defaults.Discovery.Mode)
	settings := &domain.AppSettings{
		Discovery: domain.DiscoverySettings{
			Mode:     mode,
			Keywords: s.configStore.GetStringSlice(keyKeywords),
			Brand: domain.BrandContext{
				TargetCustomer:     s.configStore.GetString(keyTargetCustomer),
				IntersectionTopics: s.configStore.GetString(keyTopics),
			},
			DesiredCount:   s.getInt(keyDesiredCount, defaults.Discovery.DesiredCount),
			RelatedCount:   s.getInt(keyRelatedCount, defaults.Discovery.RelatedCount),
			Concurrency:    s.getInt(keyConcurrency, defaults.Discovery.Concurrency),
			VocabularyPath: s.configStore.GetString(keyVocabulary),
			Thresholds:     s.getThresholds(mode),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - the adapter picks its own
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
			Cache:    s.getBool(keyEmbedCache, defaults.Embedding.Cache),
		},
		Reddit: domain.RedditSettings{
			ClientID:          s.configStore.GetString(keyRedditID),
			ClientSecret:      s.configStore.GetString(keyRedditSecret),
			UserAgent:         s.getString(keyRedditAgent, defaults.Reddit.UserAgent),
			RequestsPerMinute: s.getInt(keyRedditRPM, defaults.Reddit.RequestsPerMinute),
		},
	}

	return settings, nil
}

type configValue struct {
	key   string
	value any
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	d := settings.Discovery
	values := []configValue{
		{keyMode, d.Mode.String()},
		{keyKeywords, d.Keywords},
		{keyTargetCustomer, d.Brand.TargetCustomer},
		{keyTopics, d.Brand.IntersectionTopics},
		{keyDesiredCount, d.DesiredCount},
		{keyRelatedCount, d.RelatedCount},
		{keyConcurrency, d.Concurrency},
		{keyVocabulary, d.VocabularyPath},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedCache, settings.Embedding.Cache},
		{keyRedditID, settings.Reddit.ClientID},
		{keyRedditAgent, settings.Reddit.UserAgent},
		{keyRedditRPM, settings.Reddit.RequestsPerMinute},
	}
	if d.Thresholds != nil {
		values = append(values,
			configValue{keyMinPosts, d.Thresholds.MinMatchedPosts},
			configValue{keyMinRatio, d.Thresholds.MinRatio},
			configValue{keySemantic, d.Thresholds.SemanticSimilarityThreshold},
		)
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when set so an empty struct never wipes them.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.Reddit.ClientSecret != "" {
		if err := s.configStore.Set(keyRedditSecret, settings.Reddit.ClientSecret); err != nil {
			return fmt.Errorf("save %s: %w", keyRedditSecret, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindString:
		if err := validateStringSetting(key, value); err != nil {
			return err
		}
		if key == keyMode {
			mode, _ := domain.ParseWorkflowMode(value)
			value = mode.String()
		}
		parsed = value
	case kindList:
		parsed = domain.SplitTerms(value)
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func validateStringSetting(key, value string) error {
	switch key {
	case keyMode:
		if _, err := domain.ParseWorkflowMode(value); err != nil {
			return err
		}
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// Keys returns every config key accepted by Set, sorted.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// Validate checks if current settings are usable for discovery.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	d := settings.Discovery
	if err := d.Request().Validate(); err != nil {
		return err
	}
	if d.Mode.RequiresBrand() && d.Brand.IsEmpty() {
		return fmt.Errorf("%w: workflow %q requires %s or %s",
			domain.ErrInvalidInput, d.Mode, keyTargetCustomer, keyTopics)
	}
	if !settings.Reddit.IsConfigured() {
		return fmt.Errorf("%w: %s and %s must be set", domain.ErrInvalidInput, keyRedditID, keyRedditSecret)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrInvalidInput, settings.Embedding.Provider.Description())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if !s.configStore.Has(key) {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMode(defaultVal domain.WorkflowMode) domain.WorkflowMode {
	val := s.configStore.GetString(keyMode)
	if val == "" {
		return defaultVal
	}
	mode, err := domain.ParseWorkflowMode(val)
	if err != nil {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// getThresholds returns nil unless at least one threshold key is set; unset
// keys keep the workflow's reference value.
func (s *SettingsService) getThresholds(mode domain.WorkflowMode) *domain.RelevanceThresholds {
	if !s.configStore.Has(keyMinPosts) && !s.configStore.Has(keyMinRatio) && !s.configStore.Has(keySemantic) {
		return nil
	}
	t := mode.Thresholds()
	if s.configStore.Has(keyMinPosts) {
		t.MinMatchedPosts = s.configStore.GetInt(keyMinPosts)
	}
	if s.configStore.Has(keyMinRatio) {
		t.MinRatio = s.configStore.GetFloat(keyMinRatio)
	}
	if s.configStore.Has(keySemantic) {
		t.SemanticSimilarityThreshold = s.configStore.GetFloat(keySemantic)
	}
	return &t
}
