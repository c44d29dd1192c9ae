package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	keywordsSeed seedFlags
	keywordsJSON bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [keywords...]",
	Short: "Show the keyword set a discovery would search",
	Long: `Runs only the keyword stage of discovery and prints the expanded keyword set
in search order. The first keyword is the primary keyword used for the
related-community lookup.`,
	RunE: runKeywords,
}

func init() {
	keywordsSeed.register(keywordsCmd)
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "output keywords as JSON")
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	req, err := keywordsSeed.request(cmd, args)
	if err != nil {
		return err
	}

	keywords, err := discoveryService.ExpandKeywords(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("keyword expansion failed: %w", err)
	}

	if keywordsJSON {
		data, err := json.MarshalIndent(keywords.Keywords(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal keywords: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if keywords.IsEmpty() {
		cmd.Println("No keywords. Pass keywords as arguments or set a brand context.")
		return nil
	}
	cmd.Printf("Keywords (%d):\n", keywords.Len())
	for i, kw := range keywords.Keywords() {
		cmd.Printf("  %2d. %s\n", i+1, kw)
	}
	return nil
}
