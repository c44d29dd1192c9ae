package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

// seedFlags are the run-seed flags shared by discover and keywords.
type seedFlags struct {
	mode           string
	keywords       []string
	targetCustomer string
	topics         string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "workflow: manual, brand_context or auto_keywords")
	cmd.Flags().StringSliceVarP(&f.keywords, "keyword", "k", nil, "seed keyword (repeatable, comma-separated)")
	cmd.Flags().StringVar(&f.targetCustomer, "target-customer", "", "comma-separated customer descriptions")
	cmd.Flags().StringVar(&f.topics, "topics", "", "comma-separated intersection topics")
}

// request builds a run request from the configured defaults overlaid with
// the flags that were set and any positional keywords.
func (f *seedFlags) request(cmd *cobra.Command, args []string) (domain.DiscoveryRequest, error) {
	req := domain.DefaultAppSettings().Discovery.Request()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return domain.DiscoveryRequest{}, fmt.Errorf("failed to get settings: %w", err)
		}
		req = settings.Discovery.Request()
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := domain.ParseWorkflowMode(f.mode)
		if err != nil {
			return domain.DiscoveryRequest{}, err
		}
		if mode != req.Mode {
			// Configured thresholds belong to the configured mode.
			req.Thresholds = nil
		}
		req.Mode = mode
	}

	keywords := append(append([]string{}, f.keywords...), args...)
	if len(keywords) > 0 {
		req.Keywords = keywords
	}
	if flags.Changed("target-customer") {
		req.Brand.TargetCustomer = f.targetCustomer
	}
	if flags.Changed("topics") {
		req.Brand.IntersectionTopics = f.topics
	}
	return req, nil
}
