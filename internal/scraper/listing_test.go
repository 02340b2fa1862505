package scraper

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html, pageURL string) *Document {
	t.Helper()
	raw, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return NewDocument(raw, pageURL)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseListing(t *testing.T) {
	events := []listingEvent{
		{date: date(2025, time.December, 30), name: "QIP 2026", location: "Riga, Latvia", href: "/event/qip"},
		{date: date(2026, time.January, 15), name: "TQC 2026", location: "Delft, Netherlands", href: "/event/tqc"},
		{date: date(2026, time.January, 20), name: "Quantum Café", location: "Paris, France", href: "https://other.example/qc"},
		{date: date(2026, time.March, 2), name: "APS March Meeting", location: "Denver, USA", href: "/event/aps"},
	}
	doc := parseHTML(t, listingHTML(events), "https://conferenceindex.example/conferences/quantum?page=1")

	summaries, err := ParseListing(doc)
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if len(summaries) != len(events) {
		t.Fatalf("ParseListing() returned %d summaries, want %d", len(summaries), len(events))
	}

	for i, s := range summaries {
		want := events[i]
		if s.Name != want.name {
			t.Errorf("summary %d name = %q, want %q", i, s.Name, want.name)
		}
		if s.Location != want.location {
			t.Errorf("summary %d location = %q, want %q", i, s.Location, want.location)
		}
		if !s.Date.Equal(want.date) {
			t.Errorf("summary %d date = %v, want %v", i, s.Date, want.date)
		}
	}

	if got := summaries[1].URL; got != "https://conferenceindex.example/event/tqc" {
		t.Errorf("relative link resolved to %q", got)
	}
	if got := summaries[2].URL; got != "https://other.example/qc" {
		t.Errorf("absolute link = %q", got)
	}
}

func TestParseListing_LineBreakSeparatedItems(t *testing.T) {
	html := `
		<div id="eventList">
			<div class="card-header">February 2026</div>
			<ul><li>
				Feb 3
				<a href="/e/1" title="Workshop">Workshop on Qubits</a>
				- Online
			</li></ul>
		</div>`
	summaries, err := ParseListing(parseHTML(t, html, "https://example.com/"))
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if s.Name != "Workshop on Qubits" || s.Location != "Online" || !s.Date.Equal(date(2026, time.February, 3)) {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestParseListing_Errors(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantField string
	}{
		{
			name:      "missing event list",
			html:      `<html><body><header><ul><li><a href="/x" title="x">x</a></li></ul></header><p>No events</p></body></html>`,
			wantField: "event list",
		},
		{
			name: "malformed line",
			html: `<div id="eventList"><div class="card-header">January 2026</div>
				<ul><li><span>Jan 5</span> <a href="/e" title="e">Only name</a></li></ul></div>`,
			wantField: "event line",
		},
		{
			name: "malformed heading",
			html: `<div id="eventList"><div class="card-header">Sometime soon</div>
				<ul><li><span>Jan 5</span> <a href="/e" title="e">Name</a> <span>- X</span></li></ul></div>`,
			wantField: "year heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListing(parseHTML(t, tt.html, "https://example.com/"))
			var ee *ExtractionError
			if !errors.As(err, &ee) {
				t.Fatalf("ParseListing() error = %v, want *ExtractionError", err)
			}
			if ee.Field != tt.wantField {
				t.Errorf("ExtractionError.Field = %q, want %q", ee.Field, tt.wantField)
			}
		})
	}
}

func TestParseListing_SkipsUnresolvableDates(t *testing.T) {
	html := `<div id="eventList"><div class="card-header">January 2026</div><ul>
		<li><span>Jan 5</span> <a href="/a" title="a">Kept</a> <span>- Delft</span></li>
		<li><span>Feb 9</span> <a href="/b" title="b">No heading for February</a> <span>- Delft</span></li>
		<li><span>Foo 9</span> <a href="/c" title="c">Bad month</a> <span>- Delft</span></li>
	</ul></div>`

	summaries, err := ParseListing(parseHTML(t, html, "https://example.com/"))
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "Kept" {
		t.Errorf("ParseListing() = %+v, want only the resolvable entry", summaries)
	}
}

func TestParseListing_EmptyList(t *testing.T) {
	summaries, err := ParseListing(parseHTML(t, `<div id="eventList"></div>`, "https://example.com/"))
	if err != nil {
		t.Fatalf("ParseListing() error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("got %d summaries, want 0", len(summaries))
	}
}
