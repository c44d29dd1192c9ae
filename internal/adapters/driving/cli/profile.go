package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

var (
	profilePeriod   string
	profileLimit    int
	profileJSON     bool
	profilePosts    bool
	profileComments int
)

var profileCmd = &cobra.Command{
	Use:   "profile [community]",
	Short: "Summarise how a community writes its top posts",
	Long: `Samples the community's top posts for a period and reports title and body
length, the most frequent title words and word pairs, and how often titles
are questions or bodies use bullet lists.

With --posts the sampled posts are written as JSON instead, each with its
comment tree flattened breadth-first.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profilePeriod, "period", "p", "year", "top-post period: day, week, month, year or all")
	profileCmd.Flags().IntVarP(&profileLimit, "limit", "n", 100, "maximum posts to analyse")
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "output the profile as JSON")
	profileCmd.Flags().BoolVar(&profilePosts, "posts", false, "output the top posts and their comments as JSON")
	profileCmd.Flags().IntVar(&profileComments, "comments", 0, "maximum comments per post with --posts (0 for all served)")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}
	if profilePosts {
		return runScrape(cmd, args[0])
	}

	profile, err := profileService.Profile(cmd.Context(), args[0], domain.TimeFilter(profilePeriod), profileLimit)
	if err != nil {
		return fmt.Errorf("profile failed: %w", err)
	}

	if profileJSON {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("r/%s (%d top posts)\n", profile.Community, profile.PostCount)
	cmd.Println()
	cmd.Printf("  Average title: %.1f words\n", profile.AvgTitleWords)
	cmd.Printf("  Average body:  %.1f words\n", profile.AvgBodyWords)
	cmd.Printf("  Question titles: %d\n", profile.QuestionTitles)
	cmd.Printf("  Bulleted bodies: %d\n", profile.BulletBodies)
	printTerms(cmd, "Top title words", profile.TopWords)
	printTerms(cmd, "Top title bigrams", profile.TopBigrams)
	return nil
}

func runScrape(cmd *cobra.Command, community string) error {
	if profileComments < 0 {
		return errors.New("--comments must not be negative")
	}
	posts, err := profileService.Scrape(
		cmd.Context(), community, domain.TimeFilter(profilePeriod), profileLimit, profileComments,
	)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printTerms(cmd *cobra.Command, heading string, terms []domain.TermCount) {
	if len(terms) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("  %s:\n", heading)
	for _, t := range terms {
		cmd.Printf("    %-24s %d\n", t.Term, t.Count)
	}
}
