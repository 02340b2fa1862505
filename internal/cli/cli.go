package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/conf-hunt/internal/config"
	"github.com/pfrederiksen/conf-hunt/internal/hunt"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/pfrederiksen/conf-hunt/internal/scraper"
	"github.com/pfrederiksen/conf-hunt/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	logOutput  io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	opts := &globalOptions{logOutput: logOutput}

	cmd := &cobra.Command{
		Use:   "conf-hunt",
		Short: "Find upcoming conferences worth attending",
		Long: `A CLI tool that crawls a conference listing, keeps the conferences
inside a date window, and ranks them by keyword matches and known speakers.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (or env: "+config.EnvConfigPath+")")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newHuntCmd(opts),
		newShowCmd(opts),
		newDigestCmd(opts),
		newScheduleCmd(opts),
	)

	return cmd
}

// setup loads the configuration and installs the default logger.
func (o *globalOptions) setup() (*config.Config, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, o.logOutput))
	logger.ResetMetrics()

	logger.Debug("Loaded configuration", logger.Fields{
		"listing_url": cfg.ListingURL,
		"data_dir":    cfg.DataDir,
		"keywords":    len(cfg.Keywords),
		"speakers":    len(cfg.Speakers),
	})
	return cfg, nil
}

// finish logs the run metrics in verbose mode.
func (o *globalOptions) finish() {
	if o.verbose {
		logger.Info("Run metrics", logger.MetricsSnapshot())
	}
}

func newHunter(cfg *config.Config, skipSpeakers bool) *hunt.Hunter {
	fetcher := scraper.NewHTTPFetcher(cfg.FetchTimeout())
	return hunt.New(fetcher, hunt.Vocabulary{
		Keywords: cfg.Keywords,
		Speakers: cfg.Speakers,
	}, hunt.Options{
		ListingURL:   cfg.ListingURL,
		Window:       cfg.Window,
		MinKeywords:  cfg.Filters.MinKeywords,
		MinSpeakers:  cfg.Filters.MinSpeakers,
		SkipSpeakers: skipSpeakers,
	})
}

// runPipeline crawls and filters, saving a snapshot when store is non-nil.
func runPipeline(h *hunt.Hunter, store *storage.Storage) (*hunt.Result, error) {
	if store != nil {
		h.SetSnapshotter(store)
	}
	return h.Run()
}

// loadSnapshot filters the saved snapshot instead of crawling.
func loadSnapshot(h *hunt.Hunter, store *storage.Storage) (*hunt.Result, error) {
	snapshot, err := store.Load()
	if errors.Is(err, storage.ErrNoSnapshot) {
		return nil, fmt.Errorf("no snapshot in %s, run hunt without --from-snapshot first", store.Path())
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded snapshot", logger.Fields{
		"updated_at":  snapshot.UpdatedAt,
		"conferences": snapshot.Conferences.Len(),
	})
	return h.FromList(snapshot.Conferences), nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
