// Package hunt runs the conference pipeline: crawl the listing, enrich the
// admitted conferences, filter by keyword count, resolve speakers and filter by
// speaker count.
package hunt

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/pfrederiksen/conf-hunt/internal/scraper"
)

// Vocabulary holds the terms conferences are matched against.
type Vocabulary struct {
	Keywords []string
	Speakers []string
}

// Options configures a pipeline run.
type Options struct {
	ListingURL   string
	Window       scraper.Window
	MinKeywords  int
	MinSpeakers  int
	SkipSpeakers bool
}

// Snapshotter persists the enriched collection.
type Snapshotter interface {
	Save(list *conference.List, listingURL string) error
}

// Result is the outcome of a run.
type Result struct {
	Conferences *conference.List
	// Found is the number of conferences admitted by the crawl, before filtering.
	Found int
	// Latest is the date of the latest conference found by the crawl.
	Latest time.Time
}

// Hunter drives the pipeline.
type Hunter struct {
	fetcher  scraper.Fetcher
	vocab    Vocabulary
	opts     Options
	now      func() time.Time
	snapshot Snapshotter
}

// New creates a Hunter.
func New(fetcher scraper.Fetcher, vocab Vocabulary, opts Options) *Hunter {
	return &Hunter{
		fetcher: fetcher,
		vocab:   vocab,
		opts:    opts,
		now:     time.Now,
	}
}

// SetClock replaces the clock used for the admit window.
func (h *Hunter) SetClock(now func() time.Time) {
	h.now = now
}

// SetSnapshotter saves the enriched collection after each run.
func (h *Hunter) SetSnapshotter(s Snapshotter) {
	h.snapshot = s
}

// Crawl collects the conferences inside the admit window.
func (h *Hunter) Crawl() (*conference.List, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("stage.crawl", time.Since(start)) }()

	crawler := scraper.NewCrawler(h.fetcher, h.opts.ListingURL, h.opts.Window)
	crawler.SetClock(h.now)
	return crawler.Crawl()
}

// Enrich fetches the detail page of every conference in list. A failed page is
// logged and leaves that conference with empty enrichment fields.
func (h *Hunter) Enrich(list *conference.List) int {
	start := time.Now()
	defer func() { logger.RecordTiming("stage.enrich", time.Since(start)) }()

	enricher := scraper.NewEnricher(h.fetcher, h.vocab.Keywords)
	failed := 0
	total := list.Len()
	for i, rec := range list.Records() {
		logger.Info("Enriching conference", logger.Fields{
			"index": i + 1,
			"total": total,
			"name":  rec.Name,
		})
		if err := enricher.Enrich(rec); err != nil {
			failed++
			logger.IncrCounter("enrich.failures")
			logger.Warn("Could not enrich conference", logger.Fields{
				"name":  rec.Name,
				"url":   rec.URL,
				"error": err.Error(),
			})
		}
	}
	return failed
}

// ResolveSpeakers looks up known speakers for every conference in list. A
// conference without a program page, or whose program page fails, keeps an
// empty speaker list.
func (h *Hunter) ResolveSpeakers(list *conference.List) int {
	start := time.Now()
	defer func() { logger.RecordTiming("stage.speakers", time.Since(start)) }()

	resolver := scraper.NewSpeakerResolver(h.fetcher, h.vocab.Speakers, nil)
	failed := 0
	total := list.Len()
	for i, rec := range list.Records() {
		logger.Info("Resolving speakers", logger.Fields{
			"index": i + 1,
			"total": total,
			"name":  rec.Name,
		})
		err := resolver.Resolve(rec, false)
		switch {
		case err == nil:
		case errors.Is(err, scraper.ErrNoProgramURL):
			logger.Debug("Conference has no program page", logger.Fields{"name": rec.Name})
		default:
			failed++
			logger.IncrCounter("speakers.failures")
			logger.Warn("Could not resolve speakers", logger.Fields{
				"name":  rec.Name,
				"error": err.Error(),
			})
		}
	}
	return failed
}

// Filter applies the keyword filter, then resolves speakers and applies the
// speaker filter unless speakers are skipped.
func (h *Hunter) Filter(list *conference.List) {
	h.filterKeywords(list)
	if h.opts.SkipSpeakers {
		return
	}
	h.ResolveSpeakers(list)
	h.filterSpeakers(list)
}

func (h *Hunter) filterKeywords(list *conference.List) {
	removed := list.FilterKeywords(h.opts.MinKeywords)
	logger.Info("Applied keyword filter", logger.Fields{
		"min_keywords": h.opts.MinKeywords,
		"removed":      removed,
		"remaining":    list.Len(),
	})
}

func (h *Hunter) filterSpeakers(list *conference.List) {
	removed := list.FilterSpeakers(h.opts.MinSpeakers)
	logger.Info("Applied speaker filter", logger.Fields{
		"min_speakers": h.opts.MinSpeakers,
		"removed":      removed,
		"remaining":    list.Len(),
	})
}

// Run executes the whole pipeline. The snapshot, if any, holds every enriched
// conference the crawl found, with the speakers resolved for those that passed
// the keyword filter.
func (h *Hunter) Run() (*Result, error) {
	list, err := h.Crawl()
	if err != nil {
		return nil, fmt.Errorf("crawling listing: %w", err)
	}
	result := summarize(list)
	logger.Info("Crawl complete", logger.Fields{"found": result.Found})

	h.Enrich(list)
	all := conference.NewList(list.Records()...)

	h.Filter(list)

	if h.snapshot != nil {
		if err := h.snapshot.Save(all, h.opts.ListingURL); err != nil {
			logger.Warn("Could not save snapshot", logger.Fields{"error": err.Error()})
		}
	}
	return result, nil
}

// FromList filters an already enriched collection, such as one loaded from a
// snapshot, without network access. Keywords and speakers are used as saved.
func (h *Hunter) FromList(list *conference.List) *Result {
	result := summarize(list)
	h.filterKeywords(list)
	if !h.opts.SkipSpeakers {
		h.filterSpeakers(list)
	}
	return result
}

func summarize(list *conference.List) *Result {
	r := &Result{Conferences: list, Found: list.Len()}
	if latest, ok := list.Latest(); ok {
		r.Latest = latest
	}
	return r
}
