package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crumbwatch/crumbwatch/internal/schedule"
)

// NewCmdWatch creates the watch command.
func NewCmdWatch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously monitor the configured repositories",
		Long: `Scan the configured repositories on an interval until interrupted.
Repositories are scanned concurrently; a repository whose previous scan
is still running is skipped rather than scanned twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Interval, "interval", "", "Scan interval (e.g. 30m, 1h); overrides the config file")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *Options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setupApp(ctx, opts)
	if err != nil {
		return err
	}

	interval := app.cfg.ScanIntervalDuration(schedule.DefaultInterval)
	if opts.Interval != "" {
		flagCfg := *app.cfg
		flagCfg.ScanInterval = opts.Interval
		interval = flagCfg.ScanIntervalDuration(interval)
	}

	monitor := schedule.NewMonitor(app.engine, app.configs, interval)
	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
