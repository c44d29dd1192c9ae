package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadscout/internal/core/ports/driving"
	"github.com/custodia-labs/threadscout/internal/logger"
)

// annotationNoServices marks commands that run without bootstrapping services.
const annotationNoServices = "threadscout/no-services"

// version is set at build time via SetVersion.
var version = "dev"

// Persistent flags.
var (
	configDir string
	verbose   bool
	quiet     bool
)

// Services wired by the bootstrap. Commands check for nil and report
// "<name> service not configured".
var (
	discoveryService  driving.DiscoveryService
	runHistoryService driving.RunHistoryService
	profileService    driving.ProfileService
	settingsService   driving.SettingsService
	configWatcher     ConfigWatcher
	closeServices     func()
)

// ConfigWatcher reloads settings when the config file changes.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services holds the driving ports used by commands.
type Services struct {
	Discovery driving.DiscoveryService
	Runs      driving.RunHistoryService
	Profile   driving.ProfileService
	Settings  driving.SettingsService

	// ConfigWatcher is used by long-running commands. Optional.
	ConfigWatcher ConfigWatcher

	// Close releases stores and providers. Optional.
	Close func()
}

// BootstrapFunc builds services for a config directory.
// An empty configDir selects the default location.
type BootstrapFunc func(ctx context.Context, configDir string) (*Services, error)

var bootstrap BootstrapFunc

var rootCmd = &cobra.Command{
	Use:   "threadscout",
	Short: "Find Reddit communities that talk about your topic",
	Long: `threadscout discovers Reddit communities relevant to a set of seed keywords
or a brand description.

Keywords are expanded by embedding similarity, searched across Reddit, and
every community that surfaces is checked by sampling its recent posts. A
community is accepted when enough of its posts mention the keywords, either
literally or semantically.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.threadscout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show pipeline progress and debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap sets the function that builds services once flags are parsed.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	discoveryService = s.Discovery
	runHistoryService = s.Runs
	profileService = s.Profile
	settingsService = s.Settings
	configWatcher = s.ConfigWatcher
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	if bootstrap == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	services, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}
