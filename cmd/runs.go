package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crumbwatch/crumbwatch/internal/audit"
	"github.com/crumbwatch/crumbwatch/internal/format"
)

// NewCmdRuns creates the runs command.
func NewCmdRuns() *cobra.Command {
	var limit int
	var repo string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent monitoring run history",
		Long:  `Display snapshots of recent monitoring passes from the local run log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, limit, repo, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&repo, "repo", "", "Only show runs for this owner/name repository")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runRuns(cmd *cobra.Command, limit int, repo string, asJSON bool) error {
	store, err := audit.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}

	var snapshots []audit.Snapshot
	if repo != "" {
		snapshots = store.RecentForRepository(repo, limit)
	} else {
		snapshots = store.Recent(limit)
	}

	w := cmd.OutOrStdout()

	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-30s %7s %7s %7s %9s %7s %7s\n",
		"Age", "Repository", "Issues", "Claims", "Nudges", "Released", "Alerts", "Errors")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%-6s %-30s %7d %7d %7d %9d %7d %7d\n",
			format.FormatAge(time.Since(s.Timestamp)),
			s.Repository,
			s.IssuesAnalyzed,
			s.ClaimsDetected,
			s.NudgesSent,
			s.AutoReleased,
			s.AlertsSent,
			s.Errors)
	}

	return nil
}
