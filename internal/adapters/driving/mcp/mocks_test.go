package mcp

import (
	"context"

	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// mockDiscoveryService implements driving.DiscoveryService for testing.
type mockDiscoveryService struct {
	result   *domain.DiscoveryResult
	keywords domain.KeywordSet
	err      error

	lastRequest domain.DiscoveryRequest
}

func (m *mockDiscoveryService) Discover(
	_ context.Context, req domain.DiscoveryRequest, _ driven.DiscoveryObserver,
) (*domain.DiscoveryResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.DiscoveryResult{RunID: "run-1", Mode: req.Mode}, nil
	}
	return m.result, nil
}

func (m *mockDiscoveryService) ExpandKeywords(_ context.Context, req domain.DiscoveryRequest) (domain.KeywordSet, error) {
	m.lastRequest = req
	return m.keywords, m.err
}

// mockRunHistoryService implements driving.RunHistoryService for testing.
type mockRunHistoryService struct {
	runs    map[string]domain.DiscoveryResult
	listErr error
}

func (m *mockRunHistoryService) List(_ context.Context, _ int) ([]domain.RunSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.RunSummary, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.Summary())
	}
	return out, nil
}

func (m *mockRunHistoryService) Get(_ context.Context, runID string) (*domain.DiscoveryResult, error) {
	r, ok := m.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *mockRunHistoryService) Delete(_ context.Context, runID string) error {
	delete(m.runs, runID)
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = s
	return nil
}

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Validate() error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

// mockProfileService implements driving.ProfileService for testing.
type mockProfileService struct {
	profile *domain.CommunityProfile
	err     error

	community string
	period    domain.TimeFilter
	limit     int
}

func (m *mockProfileService) Profile(
	_ context.Context, community string, period domain.TimeFilter, limit int,
) (*domain.CommunityProfile, error) {
	m.community = community
	m.period = period
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockProfileService) Scrape(
	_ context.Context, community string, period domain.TimeFilter, limit, _ int,
) ([]domain.Post, error) {
	m.community = community
	m.period = period
	m.limit = limit
	return nil, m.err
}
