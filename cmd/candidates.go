package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crumbwatch/crumbwatch/internal/output"
)

// NewCmdCandidates creates the candidates command.
func NewCmdCandidates(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates owner/repo#number",
		Short: "Rank who is positioned to deliver an issue",
		Long: `For an unassigned issue, rank everyone who claimed it in the comment
thread by how likely they are to deliver, based on their pull request
history. For an assigned issue, forecast the assignee instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCandidates(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	return cmd
}

func runCandidates(cmd *cobra.Command, args []string, opts *Options) error {
	owner, repo, number, err := parseIssueRef(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := setupApp(ctx, opts)
	if err != nil {
		return err
	}

	outlook, err := app.engine.RankCandidates(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(outputFormat(opts, app.cfg))
	return formatter.Outlook(args[0], outlook, cmd.OutOrStdout())
}

// parseIssueRef parses an owner/repo#number issue reference.
func parseIssueRef(ref string) (owner, repo string, number int, err error) {
	repoPart, numberPart, ok := strings.Cut(ref, "#")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid issue reference %q, expected owner/repo#number", ref)
	}
	owner, repo, ok = strings.Cut(repoPart, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", 0, fmt.Errorf("invalid repository in %q, expected owner/repo#number", ref)
	}
	number, err = strconv.Atoi(numberPart)
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid issue number in %q, expected owner/repo#number", ref)
	}
	return owner, repo, number, nil
}
