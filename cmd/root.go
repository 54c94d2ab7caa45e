// Package cmd wires the crumbwatch command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{Benchmark: -1}

	rootCmd := &cobra.Command{
		Use:   "crumbwatch",
		Short: "Detect and release abandoned GitHub issue claims",
		Long: `A tool that watches GitHub repositories for "cookie licking":
contributors who claim issues ("I'll work on this!") and then never
deliver. It classifies claim comments, scores abandonment risk, nudges
silent claimants, and releases issues back to the community.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Bare `crumbwatch` behaves like `crumbwatch scan`.
	addScanFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdScan(opts))
	rootCmd.AddCommand(NewCmdWatch(opts))
	rootCmd.AddCommand(NewCmdServe(opts))
	rootCmd.AddCommand(NewCmdCandidates(opts))
	rootCmd.AddCommand(NewCmdRuns())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
