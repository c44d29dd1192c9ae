// Command threadscout discovers Reddit communities relevant to a topic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/threadscout/internal/adapters/driven/ai"
	"github.com/custodia-labs/threadscout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/threadscout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/threadscout/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/threadscout/internal/adapters/driven/vocabulary"
	"github.com/custodia-labs/threadscout/internal/adapters/driving/cli"
	"github.com/custodia-labs/threadscout/internal/connectors/reddit"
	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
	"github.com/custodia-labs/threadscout/internal/core/services"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(build)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires adapters and services for configDir.
func build(ctx context.Context, configDir string) (*cli.Services, error) {
	var (
		configStore driven.ConfigStore
		watcher     cli.ConfigWatcher
	)
	if fileStore, err := file.NewConfigStore(configDir); err != nil {
		logger.Warn("Config file unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
		watcher = fileStore
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Storage falls back to memory so discovery still works on a read-only home.
	var (
		runStore driven.RunStore
		cache    driven.EmbeddingCache
	)
	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	if store, err := sqlite.NewStore(dataDir); err != nil {
		logger.Warn("Run history unavailable, keeping runs in memory: %v", err)
		runStore = memory.NewRunStore()
		cache = memory.NewEmbeddingCache()
	} else {
		closers = append(closers, func() { store.Close() })
		runStore = store.RunStore()
		cache = store.EmbeddingCache()
	}

	embedding := ai.Initialise(&settings.Embedding, cache)
	for _, w := range embedding.Warnings {
		logger.Warn("%s", w)
	}
	closers = append(closers, embedding.Close)

	out := &cli.Services{
		Runs:          services.NewRunHistoryService(runStore),
		Settings:      settingsService,
		ConfigWatcher: watcher,
		Close:         closeAll,
	}

	if !settings.Reddit.IsConfigured() {
		logger.Debug("Reddit credentials not set, discovery disabled")
		return out, nil
	}
	client, err := reddit.NewClient(ctx, reddit.ConfigFromSettings(settings.Reddit))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("creating reddit client: %w", err)
	}

	index := services.NewEmbeddingIndex(embedding.EmbeddingService)
	expander := services.NewKeywordExpander(index, vocabulary.FromFile(settings.Discovery.VocabularyPath))

	aggregator := services.NewCandidateAggregator(client)
	aggregator.SetConcurrency(settings.Discovery.Concurrency)

	discovery := services.NewDiscoveryService(
		expander,
		index,
		aggregator,
		services.NewRelevanceScorer(client, index),
		client,
		runStore,
	)
	discovery.SetScoringConcurrency(settings.Discovery.Concurrency)

	out.Discovery = discovery
	out.Profile = services.NewProfileService(client)
	return out, nil
}
