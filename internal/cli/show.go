package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/pfrederiksen/conf-hunt/internal/scraper"
	"github.com/pfrederiksen/conf-hunt/internal/storage"
	"github.com/spf13/cobra"
)

type showOptions struct {
	*globalOptions
	fromSnapshot bool
}

func newShowCmd(global *globalOptions) *cobra.Command {
	opts := &showOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "show <detail-url | name>",
		Short: "Show one conference from its detail page",
		Long: `Fetch a conference detail page, match keywords and known speakers, and
print the result. With --from-snapshot the argument is a conference name looked
up in the last saved snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.fromSnapshot, "from-snapshot", false, "Look the conference up by name in the last snapshot")

	return cmd
}

func runShow(cmd *cobra.Command, opts *showOptions, arg string) error {
	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	defer opts.finish()

	var rec *conference.Record
	if opts.fromSnapshot {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		if rec, err = store.GetConference(arg); err != nil {
			return err
		}
	} else {
		fetcher := scraper.NewHTTPFetcher(cfg.FetchTimeout())
		enricher := scraper.NewEnricher(fetcher, cfg.Keywords)
		if rec, err = enricher.FetchRecord(arg); err != nil {
			return fmt.Errorf("fetching conference: %w", err)
		}

		resolver := scraper.NewSpeakerResolver(fetcher, cfg.Speakers, enricher)
		if err := resolver.Resolve(rec, false); err != nil {
			if !errors.Is(err, scraper.ErrNoProgramURL) {
				return fmt.Errorf("resolving speakers: %w", err)
			}
			logger.Debug("Conference has no program page", logger.Fields{"name": rec.Name})
		}
	}

	return writeRecord(cmd.OutOrStdout(), rec)
}

func writeRecord(w io.Writer, rec *conference.Record) error {
	list := conference.NewList(rec)
	if err := list.WriteTable(w, conference.TableOptions{Keywords: true, Speakers: true, URLs: true}); err != nil {
		return err
	}

	if len(rec.Attributes) > 0 {
		fmt.Fprintln(w, "\nDetails:")
		keys := make([]string, 0, len(rec.Attributes))
		for k := range rec.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, rec.Attributes[k])
		}
	}
	if rec.Tags != "" {
		fmt.Fprintf(w, "\nTags: %s\n", rec.Tags)
	}
	if rec.Description != "" {
		fmt.Fprintf(w, "\n%s\n", rec.Description)
	}
	return nil
}
