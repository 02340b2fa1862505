package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/hunt"
	"github.com/pfrederiksen/conf-hunt/internal/storage"
	"github.com/spf13/cobra"
)

type huntOptions struct {
	*globalOptions
	format       string
	keywords     bool
	speakers     bool
	urls         bool
	minKeywords  int
	minSpeakers  int
	skipSpeakers bool
	fromSnapshot bool
	noSnapshot   bool
}

func newHuntCmd(global *globalOptions) *cobra.Command {
	opts := &huntOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "hunt",
		Short: "Crawl the listing and print the matching conferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHunt(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, table, json or ics")
	cmd.Flags().BoolVar(&opts.keywords, "keywords", false, "Show the keyword column in table output")
	cmd.Flags().BoolVar(&opts.speakers, "speakers", false, "Show the speaker column in table output")
	cmd.Flags().BoolVar(&opts.urls, "urls", false, "Show the URL column in table output")
	cmd.Flags().IntVar(&opts.minKeywords, "min-keywords", 0, "Minimum keyword matches (default from config)")
	cmd.Flags().IntVar(&opts.minSpeakers, "min-speakers", 0, "Minimum known speakers (default from config)")
	cmd.Flags().BoolVar(&opts.skipSpeakers, "skip-speakers", false, "Do not fetch program pages or filter by speakers")
	cmd.Flags().BoolVar(&opts.fromSnapshot, "from-snapshot", false, "Filter the last saved snapshot instead of crawling")
	cmd.Flags().BoolVar(&opts.noSnapshot, "no-snapshot", false, "Do not save a snapshot of this run")

	return cmd
}

func runHunt(cmd *cobra.Command, opts *huntOptions) error {
	format, err := ParseFormat(strings.ToLower(opts.format))
	if err != nil {
		return err
	}
	if opts.fromSnapshot && opts.noSnapshot {
		return fmt.Errorf("--from-snapshot and --no-snapshot cannot be combined")
	}

	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	defer opts.finish()

	if cmd.Flags().Changed("min-keywords") {
		cfg.Filters.MinKeywords = opts.minKeywords
	}
	if cmd.Flags().Changed("min-speakers") {
		cfg.Filters.MinSpeakers = opts.minSpeakers
	}
	if cfg.Filters.MinKeywords < 0 || cfg.Filters.MinSpeakers < 0 {
		return fmt.Errorf("minimum match counts must not be negative")
	}

	h := newHunter(cfg, opts.skipSpeakers)

	var result *hunt.Result
	switch {
	case opts.fromSnapshot:
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		result, err = loadSnapshot(h, store)
		if err != nil {
			return err
		}
	case opts.noSnapshot:
		result, err = runPipeline(h, nil)
		if err != nil {
			return err
		}
	default:
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		result, err = runPipeline(h, store)
		if err != nil {
			return err
		}
	}

	table := conference.TableOptions{
		Keywords: opts.keywords,
		Speakers: opts.speakers,
		URLs:     opts.urls,
	}
	if err := WriteOutput(cmd.OutOrStdout(), NewOutputResult(result), format, table); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
