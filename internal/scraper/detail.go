package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"golang.org/x/net/html"
)

const (
	descriptionSelector = "#event-description"
	tagsSelector        = "li.mt-3"
	attributesSelector  = "ul.mb-2.list-unstyled li"
	titleSelector       = "div.col-lg-9.col-sm-12 h1"

	// DescriptionDelimiter replaces line breaks in descriptions.
	DescriptionDelimiter = " | "
	// TagDelimiter joins tag labels.
	TagDelimiter = ", "

	// Attribute keys read when a record is built from its detail page alone.
	LocationKey = "Location"
	DateKey     = "Date"
)

// detail is what a conference detail page yields.
type detail struct {
	title       string
	description string
	tags        string
	attributes  map[string]string
}

// parseDetail extracts the enrichment fields of a detail page. A missing tag list
// is an error since keywords are matched against it; a missing description is
// not.
func parseDetail(doc *Document) (*detail, error) {
	doc.StripChrome()

	title := doc.Find(titleSelector).First()
	if title.Length() == 0 {
		title = doc.Find("h1").First()
	}

	d := &detail{
		title:       strings.TrimSpace(title.Text()),
		description: description(doc.Find(descriptionSelector).First()),
		attributes:  attributes(doc),
	}

	tagList := doc.Find(tagsSelector).First()
	if tagList.Length() == 0 {
		return nil, &ExtractionError{URL: doc.URL, Field: "tags"}
	}
	var tags []string
	tagList.Find("a").Each(func(_ int, a *goquery.Selection) {
		if tag := strings.TrimSpace(a.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	d.tags = strings.Join(tags, TagDelimiter)

	return d, nil
}

// description folds the description region to lower case with its line breaks
// replaced by DescriptionDelimiter.
func description(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	sel.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return conference.Fold(strings.Join(lines, DescriptionDelimiter))
}

// attributes reads the key/value rows of the attribute list. Rows with a class
// attribute are decorative and skipped. The program URL is taken from its link
// when the row has one.
func attributes(doc *Document) map[string]string {
	attrs := make(map[string]string)
	doc.Find(attributesSelector).Each(func(_ int, li *goquery.Selection) {
		if _, styled := li.Attr("class"); styled {
			return
		}
		key, value, ok := strings.Cut(li.Text(), ":")
		if !ok {
			return
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == conference.ProgramURLKey {
			if href, ok := li.Find("a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
				value = doc.Resolve(href)
			}
		}
		if key != "" {
			attrs[key] = value
		}
	})
	return attrs
}

// Enricher fills records from their detail pages.
type Enricher struct {
	fetcher  Fetcher
	keywords []string
}

// NewEnricher creates an Enricher matching descriptions and tags against keywords.
func NewEnricher(fetcher Fetcher, keywords []string) *Enricher {
	return &Enricher{
		fetcher:  fetcher,
		keywords: keywords,
	}
}

// Enrich fetches the record's detail page and overwrites its description, tags,
// attributes and keywords. On error those fields are reset to empty values, so
// a record never carries data from an earlier fetch. Calling it again
// re-fetches the page.
func (e *Enricher) Enrich(rec *conference.Record) error {
	doc, err := e.fetcher.Fetch(rec.URL)
	if err != nil {
		resetEnrichment(rec)
		return err
	}
	d, err := parseDetail(doc)
	if err != nil {
		resetEnrichment(rec)
		return err
	}
	e.apply(rec, d)
	return nil
}

func resetEnrichment(rec *conference.Record) {
	rec.Description = ""
	rec.Tags = ""
	rec.Attributes = make(map[string]string)
	rec.Keywords = []string{}
}

func (e *Enricher) apply(rec *conference.Record, d *detail) {
	rec.Description = d.description
	rec.Tags = d.tags
	rec.Attributes = d.attributes
	rec.Keywords = conference.MatchKeywords(e.keywords, d.tags, d.description)
}

// FetchRecord builds an enriched record from a detail page alone. The name comes
// from the page title and the location and date from the attribute list, where
// the date is in the "[Weekday] <Month> <Day[-Day2]> <Year>" form.
func (e *Enricher) FetchRecord(pageURL string) (*conference.Record, error) {
	doc, err := e.fetcher.Fetch(pageURL)
	if err != nil {
		return nil, err
	}
	d, err := parseDetail(doc)
	if err != nil {
		return nil, err
	}
	if d.title == "" {
		return nil, &ExtractionError{URL: pageURL, Field: "title"}
	}

	dateText, ok := d.attributes[DateKey]
	if !ok {
		return nil, &ExtractionError{URL: pageURL, Field: "date"}
	}
	date, err := conference.ParseDetailDate(dateText)
	if err != nil {
		return nil, err
	}

	summary, err := conference.NewSummary(d.title, d.attributes[LocationKey], date, pageURL)
	if err != nil {
		return nil, err
	}
	rec := conference.NewRecord(summary)
	e.apply(rec, d)
	return rec, nil
}
