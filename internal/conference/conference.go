package conference

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProgramURLKey is the attribute naming a conference's program page.
const ProgramURLKey = "Program URL"

// DateLayout is the layout dates are rendered with.
const DateLayout = "2006-01-02"

// Summary is a conference as listed on a listing page.
type Summary struct {
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url"`
}

// NewSummary creates a Summary. A conference without a resolved date cannot be
// placed in a List, so a zero date is rejected.
func NewSummary(name, location string, date time.Time, url string) (Summary, error) {
	if date.IsZero() {
		return Summary{}, &DateParseError{Input: name, Reason: "missing date"}
	}
	return Summary{
		Name:     strings.TrimSpace(name),
		Location: strings.TrimSpace(location),
		Date:     date,
		URL:      url,
	}, nil
}

// Equal reports whether two summaries carry the same name. Distinct events that
// share a title compare equal.
func (s Summary) Equal(other Summary) bool {
	return s.Name == other.Name
}

// Line renders the summary as "date name - location".
func (s Summary) Line() string {
	return s.Date.Format(DateLayout) + " " + s.Name + " - " + s.Location
}

// Record is a Summary plus the data gathered from the detail and program pages.
// Enrichment fields stay empty until enrichment succeeds.
type Record struct {
	Summary

	Description string            `json:"description"`
	Tags        string            `json:"tags"`
	Attributes  map[string]string `json:"attributes"`
	Keywords    []string          `json:"keywords"`
	Speakers    []string          `json:"speakers"`
}

// NewRecord promotes a summary to a record with empty enrichment fields.
func NewRecord(s Summary) *Record {
	return &Record{
		Summary:    s,
		Attributes: make(map[string]string),
		Keywords:   []string{},
		Speakers:   []string{},
	}
}

// Equal compares records by name, like Summary.Equal.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Summary.Equal(other.Summary)
}

// ProgramURL returns the program page attribute, if present and non-empty.
func (r *Record) ProgramURL() (string, bool) {
	u := strings.TrimSpace(r.Attributes[ProgramURLKey])
	return u, u != ""
}

// Fold lower-cases text for keyword comparison.
func Fold(text string) string {
	return cases.Lower(language.Und).String(text)
}

// MatchKeywords returns the vocabulary terms found as a substring of any of the
// texts. Both sides are folded to lower case and a term is reported once, as
// first spelled in the vocabulary. Vocabulary order is preserved.
func MatchKeywords(vocabulary []string, texts ...string) []string {
	folded := make([]string, len(texts))
	for i, t := range texts {
		folded[i] = Fold(t)
	}

	matches := []string{}
	seen := make(map[string]struct{}, len(vocabulary))
	for _, term := range vocabulary {
		needle := Fold(strings.TrimSpace(term))
		if needle == "" {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		seen[needle] = struct{}{}
		for _, text := range folded {
			if strings.Contains(text, needle) {
				matches = append(matches, strings.TrimSpace(term))
				break
			}
		}
	}
	return matches
}

// MatchSpeakers returns the names found verbatim in text.
func MatchSpeakers(names []string, text string) []string {
	matches := []string{}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" && strings.Contains(text, name) {
			matches = append(matches, name)
		}
	}
	return matches
}
