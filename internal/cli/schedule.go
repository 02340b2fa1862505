package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newScheduleCmd(global *globalOptions) *cobra.Command {
	opts := &digestOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Deliver digests on the configured cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSchedule(ctx, cmd, opts)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runSchedule(ctx context.Context, cmd *cobra.Command, opts *digestOptions) error {
	cfg, err := opts.setup()
	if err != nil {
		return err
	}

	// Runs never overlap; a run still in progress makes the next one skip.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	id, err := c.AddFunc(cfg.Schedule, func() {
		logger.ResetMetrics()
		if err := runDigest(cmd.OutOrStdout(), cfg, opts); err != nil {
			logger.Error("Scheduled digest failed", nil, err)
			return
		}
		opts.finish()
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	c.Start()
	logger.Info("Scheduler started", logger.Fields{
		"schedule": cfg.Schedule,
		"next_run": c.Entry(id).Next,
	})

	<-ctx.Done()
	logger.Info("Stopping scheduler", nil)
	<-c.Stop().Done()
	return nil
}
