package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
)

const (
	eventListSelector  = "#eventList"
	yearHeaderSelector = ".card-header"
	eventItemSelector  = "ul li"
)

// ParseListing extracts the conference summaries of one listing page.
//
// Events are grouped under "<Month> <Year>" headings, and each event line holds
// three pieces: "<Mon> <Day>", the name, and the location prefixed with a dash.
// A missing event list, a malformed heading or a line without exactly three
// pieces fails the whole page. A line whose date cannot be resolved is skipped.
func ParseListing(doc *Document) ([]conference.Summary, error) {
	doc.StripChrome()

	container := doc.Find(eventListSelector).First()
	if container.Length() == 0 {
		return nil, &ExtractionError{URL: doc.URL, Field: "event list"}
	}

	years := conference.YearLookup{}
	var headingErr error
	container.Find(yearHeaderSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		month, year, err := conference.ParseYearHeading(sel.Text())
		if err != nil {
			headingErr = &ExtractionError{URL: doc.URL, Field: "year heading", Detail: err.Error()}
			return false
		}
		if prev, ok := years.Year(month); ok && prev != year {
			logger.Warn("Month heading repeated with another year, later heading wins", logger.Fields{
				"month":    month.String(),
				"previous": prev,
				"year":     year,
				"page":     doc.URL,
			})
		}
		years.Add(month, year)
		return true
	})
	if headingErr != nil {
		return nil, headingErr
	}

	summaries := make([]conference.Summary, 0)
	var itemErr error
	container.Find(eventItemSelector).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		pieces := linePieces(li)
		if len(pieces) != 3 {
			itemErr = &ExtractionError{
				URL:    doc.URL,
				Field:  "event line",
				Detail: fmt.Sprintf("expected 3 pieces, got %d in %q", len(pieces), strings.Join(pieces, " | ")),
			}
			return false
		}

		date, err := conference.ParseListingDate(pieces[0], years)
		if err != nil {
			logger.Warn("Skipping conference with unresolvable date", logger.Fields{
				"name":  pieces[1],
				"page":  doc.URL,
				"error": err.Error(),
			})
			return true
		}

		location := strings.TrimSpace(strings.TrimPrefix(pieces[2], "-"))
		summary, err := conference.NewSummary(pieces[1], location, date, eventLink(doc, li))
		if err != nil {
			itemErr = err
			return false
		}
		summaries = append(summaries, summary)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}

	return summaries, nil
}

// linePieces returns the non-blank text fragments of an event line, treating
// both child elements and hard line breaks as separators.
func linePieces(li *goquery.Selection) []string {
	var pieces []string
	li.Contents().Each(func(_ int, node *goquery.Selection) {
		for _, line := range strings.Split(node.Text(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				pieces = append(pieces, line)
			}
		}
	})
	return pieces
}

// eventLink returns the detail page link of an event line. Anchors carrying a
// title are the event links; others are a fallback.
func eventLink(doc *Document, li *goquery.Selection) string {
	a := li.Find("a[title][href]").First()
	if a.Length() == 0 {
		a = li.Find("a[href]").First()
	}
	href, ok := a.Attr("href")
	if !ok {
		return ""
	}
	return doc.Resolve(href)
}
