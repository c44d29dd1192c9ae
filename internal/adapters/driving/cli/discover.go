package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/threadscout/internal/adapters/driving/tui"
	"github.com/custodia-labs/threadscout/internal/core/domain"
	"github.com/custodia-labs/threadscout/internal/logger"
)

var (
	discoverSeed       seedFlags
	discoverDesired    int
	discoverRelated    int
	discoverMinMatched int
	discoverMinRatio   float64
	discoverSimilarity float64
	discoverJSON       bool
	discoverTUI        bool
	discoverAll        bool
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runDiscoveryTUI runs a discovery behind the progress UI.
var runDiscoveryTUI = tui.RunDiscovery

var discoverCmd = &cobra.Command{
	Use:   "discover [keywords...]",
	Short: "Discover communities relevant to keywords or a brand",
	Long: `Runs the full discovery pipeline: expand the seed keywords, search Reddit for
each keyword, sample recent posts of every community that surfaces, and accept
communities whose posts match the keywords often enough.

Unset flags fall back to the values in the config file.

Workflows:
  manual         - expand the given keywords by embedding similarity
  brand_context  - split --target-customer and --topics into terms, then expand
  auto_keywords  - generate keywords from the brand without expansion,
                   with a stricter semantic threshold

Examples:
  threadscout discover cycling "road bikes"
  threadscout discover --mode brand_context --target-customer "home baristas" --topics "espresso,grinders"
  threadscout discover -k chess --desired 5 --json`,
	RunE: runDiscover,
}

func init() {
	discoverSeed.register(discoverCmd)
	discoverCmd.Flags().IntVarP(&discoverDesired, "desired", "n", 0, "maximum accepted communities (default from config)")
	discoverCmd.Flags().IntVar(&discoverRelated, "related", 0, "maximum related communities, -1 disables the lookup")
	discoverCmd.Flags().IntVar(&discoverMinMatched, "min-matched", 0, "minimum matching posts for acceptance")
	discoverCmd.Flags().Float64Var(&discoverMinRatio, "min-ratio", 0, "minimum fraction of sampled posts that must match")
	discoverCmd.Flags().Float64Var(&discoverSimilarity, "similarity", 0, "cosine similarity a post must exceed to match semantically")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output the full result as JSON")
	discoverCmd.Flags().BoolVar(&discoverTUI, "tui", false, "show live progress in an interactive view")
	discoverCmd.Flags().BoolVar(&discoverAll, "all", false, "list every scored candidate, not only accepted ones")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured (set reddit.client_id and reddit.client_secret)")
	}

	req, err := discoverSeed.request(cmd, args)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &req)

	var result *domain.DiscoveryResult
	if discoverTUI && !discoverJSON && isTerminal() {
		result, err = runDiscoveryTUI(cmd.Context(), discoveryService, req)
	} else {
		if discoverTUI {
			logger.Warn("--tui needs an interactive terminal, printing results instead")
		}
		result, err = discoveryService.Discover(cmd.Context(), req, nil)
	}

	if result != nil {
		if discoverJSON {
			if jerr := outputDiscoverJSON(cmd, result); jerr != nil {
				return jerr
			}
		} else {
			outputDiscoverTable(cmd, result, discoverAll)
		}
	}
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	return nil
}

// applyRunFlags overlays run-size and threshold flags onto req.
func applyRunFlags(cmd *cobra.Command, req *domain.DiscoveryRequest) {
	flags := cmd.Flags()
	if flags.Changed("desired") {
		req.DesiredCount = discoverDesired
	}
	if flags.Changed("related") {
		req.RelatedCount = discoverRelated
	}

	if !flags.Changed("min-matched") && !flags.Changed("min-ratio") && !flags.Changed("similarity") {
		return
	}
	th := req.EffectiveThresholds()
	if flags.Changed("min-matched") {
		th.MinMatchedPosts = discoverMinMatched
	}
	if flags.Changed("min-ratio") {
		th.MinRatio = discoverMinRatio
	}
	if flags.Changed("similarity") {
		th.SemanticSimilarityThreshold = discoverSimilarity
	}
	req.Thresholds = &th
}

func outputDiscoverJSON(cmd *cobra.Command, result *domain.DiscoveryResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputDiscoverTable(cmd *cobra.Command, result *domain.DiscoveryResult, all bool) {
	cmd.Printf("Run %s (%s)\n", result.RunID, result.Mode.Description())
	if len(result.Keywords) > 0 {
		cmd.Printf("Keywords (%d): %s\n", len(result.Keywords), strings.Join(result.Keywords, ", "))
	}
	cmd.Printf("Searched %d posts across %d candidate communities\n", result.PostCount, result.CandidateCount)
	cmd.Println()

	if len(result.Accepted) == 0 {
		cmd.Println("No relevant communities found.")
	} else {
		cmd.Printf("Relevant communities (%d):\n", len(result.Accepted))
		byName := make(map[string]domain.CandidateCommunity, len(result.Candidates))
		for _, c := range result.Candidates {
			byName[c.Name] = c
		}
		for i, name := range result.Accepted {
			c := byName[name]
			cmd.Printf("  %2d. r/%-28s %d/%d posts matched (%.0f%%)\n",
				i+1, name, c.MatchedCount, c.SampledCount, c.Ratio()*100)
		}
	}

	if len(result.Supplemental) > 0 {
		cmd.Println()
		cmd.Printf("Related communities (%d):\n", len(result.Supplemental))
		for _, name := range result.Supplemental {
			cmd.Printf("  - r/%s\n", name)
		}
	}

	if all && len(result.Candidates) > 0 {
		cmd.Println()
		cmd.Println("All candidates:")
		for _, c := range result.Candidates {
			cmd.Printf("  %s r/%-28s sampled %d, lexical %d, semantic %d\n",
				candidateMark(c), c.Name, c.SampledCount, c.LexicalMatches, c.SemanticMatches)
		}
	}

	if n := result.Skipped.Total(); n > 0 {
		s := result.Skipped
		cmd.Println()
		cmd.Printf("Skipped %d items: %d keyword searches, %d communities, %d posts, %d lookups, %d embeddings\n",
			n, s.Keywords, s.Candidates, s.Posts, s.Lookups, s.Embeddings)
	}
}

func candidateMark(c domain.CandidateCommunity) string {
	switch {
	case c.Accepted:
		return "+"
	case c.Unavailable:
		return "!"
	default:
		return " "
	}
}
