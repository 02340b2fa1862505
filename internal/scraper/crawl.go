package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
)

// Window is the admit window, in days from today.
type Window struct {
	AtLeastDays int `yaml:"at_least_days" json:"at_least_days"`
	AtMostDays  int `yaml:"at_most_days" json:"at_most_days"`
}

// DefaultWindow admits conferences 30 to 180 days out.
func DefaultWindow() Window {
	return Window{AtLeastDays: 30, AtMostDays: 180}
}

// Bounds returns the first and last admitted dates relative to now.
func (w Window) Bounds(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, w.AtLeastDays), today.AddDate(0, 0, w.AtMostDays)
}

// Admits reports whether date lies within the window, bounds included.
func (w Window) Admits(date, now time.Time) bool {
	from, to := w.Bounds(now)
	return !date.Before(from) && !date.After(to)
}

// Crawler walks the paginated listing and collects conferences in the window.
type Crawler struct {
	fetcher    Fetcher
	listingURL string
	window     Window
	now        func() time.Time
}

// NewCrawler creates a crawler for the listing at listingURL.
func NewCrawler(fetcher Fetcher, listingURL string, window Window) *Crawler {
	return &Crawler{
		fetcher:    fetcher,
		listingURL: listingURL,
		window:     window,
		now:        time.Now,
	}
}

// SetClock replaces the clock the window is evaluated against.
func (c *Crawler) SetClock(now func() time.Time) {
	c.now = now
}

// PageURL returns the listing URL with its page query parameter set.
func (c *Crawler) PageURL(page int) (string, error) {
	u, err := url.Parse(c.listingURL)
	if err != nil {
		return "", fmt.Errorf("parsing listing URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Crawl fetches listing pages 1, 2, ... and returns the admitted conferences.
//
// After each page the crawl continues when the page admitted at least one
// conference or when its earliest conference is not past the window's end.
// It stops on a page that yields no usable entries. This is a heuristic, not a
// completeness guarantee: a page of only too-early events followed by in-window
// pages is still followed, but a page whose events straddle the window's end
// can end the crawl while later pages hold in-window events.
//
// A failure to fetch page 1 is returned as an error. A failure on a later page
// ends the crawl and keeps what was collected.
func (c *Crawler) Crawl() (*conference.List, error) {
	now := c.now()
	from, to := c.window.Bounds(now)
	list := conference.NewList()

	for page := 1; ; page++ {
		pageURL, err := c.PageURL(page)
		if err != nil {
			return nil, err
		}

		logger.IncrCounter("crawl.pages")
		doc, err := c.fetcher.Fetch(pageURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetching listing page %d: %w", page, err)
			}
			logger.Warn("Listing page fetch failed, ending crawl", logger.Fields{
				"page":  page,
				"error": err.Error(),
			})
			return list, nil
		}

		summaries, err := ParseListing(doc)
		if err != nil {
			logger.Info("Listing page yielded no usable entries, ending crawl", logger.Fields{
				"page":  page,
				"error": err.Error(),
			})
			return list, nil
		}
		if len(summaries) == 0 {
			logger.Info("Listing page is empty, ending crawl", logger.Fields{"page": page})
			return list, nil
		}

		earliest := summaries[0].Date
		admitted := 0
		for _, s := range summaries {
			if s.Date.Before(earliest) {
				earliest = s.Date
			}
			if c.window.Admits(s.Date, now) {
				list.Insert(conference.NewRecord(s))
				admitted++
			}
		}

		logger.Info("Crawled listing page", logger.Fields{
			"page":     page,
			"listed":   len(summaries),
			"admitted": admitted,
			"earliest": earliest.Format(conference.DateLayout),
			"from":     from.Format(conference.DateLayout),
			"to":       to.Format(conference.DateLayout),
		})

		if admitted == 0 && earliest.After(to) {
			return list, nil
		}
	}
}
