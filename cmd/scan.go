package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crumbwatch/crumbwatch/config"
	"github.com/crumbwatch/crumbwatch/internal/audit"
	"github.com/crumbwatch/crumbwatch/internal/configstore"
	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/ghclient"
	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/notify"
	"github.com/crumbwatch/crumbwatch/internal/output"
)

// appContext bundles config, client, and the assembled engine.
type appContext struct {
	cfg     *config.Config
	client  *ghclient.Client
	configs *configstore.MemoryStore
	mailer  *notify.LogMailer
	engine  *engine.Engine
}

// setupApp loads config, authenticates, and assembles the monitoring
// engine. Shared by scan, watch, serve and candidates.
func setupApp(ctx context.Context, opts *Options) (*appContext, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		return nil, fmt.Errorf("GitHub token not configured. Set the GITHUB_TOKEN environment variable")
	}

	client, err := ghclient.NewClient(ctx, token)
	if err != nil {
		return nil, err
	}

	configs := configstore.NewMemoryStore()
	for _, rc := range cfg.RepositoryConfigs() {
		configs.Set(rc)
	}

	mailer := notify.NewLogMailer()

	engineOpts := []engine.Option{}
	if runs, err := audit.NewStore(); err != nil {
		log.Warn("run history disabled", "error", err)
	} else {
		engineOpts = append(engineOpts, engine.WithAuditStore(runs))
	}

	eng := engine.New(client, configs, mailer, engineOpts...)

	benchmark := opts.Benchmark
	if benchmark < 0 && cfg.ProbabilityBenchmark != nil {
		benchmark = *cfg.ProbabilityBenchmark
	}
	if benchmark >= 0 {
		if err := eng.SetProbabilityBenchmark(benchmark); err != nil {
			return nil, err
		}
	}

	return &appContext{
		cfg:     cfg,
		client:  client,
		configs: configs,
		mailer:  mailer,
		engine:  eng,
	}, nil
}

// outputFormat resolves the effective format: flag, then config, then
// table.
func outputFormat(opts *Options, cfg *config.Config) output.Format {
	if opts.Format != "" {
		return output.Format(opts.Format)
	}
	if cfg.DefaultFormat != "" {
		return output.Format(cfg.DefaultFormat)
	}
	return output.FormatTable
}

// targetRepos resolves which repositories to scan: positional args win
// over the configured watch list.
func targetRepos(args []string, app *appContext) ([]string, error) {
	if len(args) > 0 {
		for _, arg := range args {
			owner, name, ok := strings.Cut(arg, "/")
			if !ok || owner == "" || name == "" {
				return nil, fmt.Errorf("invalid repository %q, expected owner/name", arg)
			}
		}
		return args, nil
	}

	var repos []string
	for _, rc := range app.configs.All() {
		repos = append(repos, rc.RepositoryID)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repositories to scan: pass owner/name or add repositories to the config file")
	}
	return repos, nil
}

// addScanFlags registers the scan flags on a command.
func addScanFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().Float64Var(&opts.Benchmark, "benchmark", -1, "Alert when completion probability drops below this percentage (0-100)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

// NewCmdScan creates the scan command.
func NewCmdScan(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [owner/repo...]",
		Short: "Run one monitoring pass over repositories",
		Long: `Analyze open issues for claim comments, score active claims for
abandonment risk, nudge silent claimants, and auto-release claims past
their grace period. Without arguments, scans the configured watch list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}
	addScanFlags(cmd, opts)
	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()
	app, err := setupApp(ctx, opts)
	if err != nil {
		return err
	}

	repos, err := targetRepos(args, app)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(outputFormat(opts, app.cfg))

	var failed int
	for i, repoID := range repos {
		owner, name, _ := strings.Cut(repoID, "/")
		analytics, err := app.engine.ProcessRepository(ctx, owner, name)
		if err != nil {
			log.Error("scan failed", "repository", repoID, "error", err)
			failed++
			continue
		}
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := formatter.Report(analytics, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if failed == len(repos) {
		return fmt.Errorf("all %d repository scans failed", failed)
	}
	return nil
}
