package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect previous discovery runs",
	Long:  `Every completed discovery run is stored locally. Use subcommands to list or inspect them.`,
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to list")
	runsCmd.PersistentFlags().BoolVar(&runsJSON, "json", false, "output as JSON")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runHistoryService == nil {
		return errors.New("run history service not configured")
	}

	runs, err := runHistoryService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if runsJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No runs yet. Start one with 'threadscout discover'.")
		return nil
	}

	cmd.Printf("%-36s  %-16s  %-14s  %-20s  %s\n", "RUN", "STARTED", "MODE", "PRIMARY KEYWORD", "ACCEPTED")
	for _, r := range runs {
		cmd.Printf("%-36s  %-16s  %-14s  %-20s  %d (+%d related)\n",
			r.RunID, formatTime(r.StartedAt), r.Mode, truncate(r.PrimaryKeyword, 20),
			r.AcceptedCount, r.SupplementalCount)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runHistoryService == nil {
		return errors.New("run history service not configured")
	}

	result, err := runHistoryService.Get(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("run %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if runsJSON {
		return outputDiscoverJSON(cmd, result)
	}
	cmd.Printf("Started %s, took %s\n", formatTime(result.StartedAt), result.Duration().Round(time.Millisecond))
	outputDiscoverTable(cmd, result, true)
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if runHistoryService == nil {
		return errors.New("run history service not configured")
	}

	err := runHistoryService.Delete(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("run %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
