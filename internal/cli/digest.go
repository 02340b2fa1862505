package cli

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/conf-hunt/internal/config"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/pfrederiksen/conf-hunt/internal/notifier"
	"github.com/pfrederiksen/conf-hunt/internal/storage"
	"github.com/spf13/cobra"
)

type digestOptions struct {
	*globalOptions
	dryRun       bool
	twitter      bool
	skipSpeakers bool
}

func (o *digestOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the digest instead of sending it")
	cmd.Flags().BoolVar(&o.twitter, "twitter", false, "Post to Twitter instead of mailing recipients")
	cmd.Flags().BoolVar(&o.skipSpeakers, "skip-speakers", false, "Do not fetch program pages or filter by speakers")
}

func newDigestCmd(global *globalOptions) *cobra.Command {
	opts := &digestOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Run the hunt and deliver the result as a digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup()
			if err != nil {
				return err
			}
			defer opts.finish()
			return runDigest(cmd.OutOrStdout(), cfg, opts)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runDigest(out io.Writer, cfg *config.Config, opts *digestOptions) error {
	n, err := newNotifier(out, cfg, opts)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	result, err := runPipeline(newHunter(cfg, opts.skipSpeakers), store)
	if err != nil {
		return err
	}

	logger.Info("Delivering digest", logger.Fields{
		"conferences": result.Conferences.Len(),
		"twitter":     opts.twitter,
		"dry_run":     opts.dryRun,
	})
	if err := n.Notify(result.Conferences); err != nil {
		return fmt.Errorf("delivering digest: %w", err)
	}
	return nil
}

func newNotifier(out io.Writer, cfg *config.Config, opts *digestOptions) (notifier.Notifier, error) {
	switch {
	case opts.twitter && opts.dryRun:
		return notifier.NewDryRunTwitterNotifier(out), nil
	case opts.twitter:
		return notifier.NewTwitterNotifier()
	case opts.dryRun:
		return notifier.NewDryRunNotifier(out, cfg.Recipients), nil
	default:
		return notifier.NewMailNotifier(cfg.Mail, cfg.Recipients)
	}
}
