// Package digest formats a conference collection as a digest message.
package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

// Subject returns the digest subject line for the given day.
func Subject(now time.Time) string {
	return fmt.Sprintf("Your conference update %s", now.Format(conference.DateLayout))
}

// FormatDigest formats list as an HTML digest body, grouping conferences by
// the month they start in.
func FormatDigest(list *conference.List) string {
	if list.Len() == 0 {
		return "<p>No upcoming conferences match your filters.</p>\n"
	}

	var sb strings.Builder
	sb.WriteString("<h1>Upcoming conferences</h1>\n")
	fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(FormatSummary(list)))

	// The list is date-sorted, so each month is one contiguous run.
	month := ""
	for _, rec := range list.Records() {
		if m := rec.Date.Format("January 2006"); m != month {
			if month != "" {
				sb.WriteString("</ul>\n")
			}
			fmt.Fprintf(&sb, "<h2>%s</h2>\n<ul>\n", m)
			month = m
		}
		sb.WriteString(formatItem(rec))
	}
	sb.WriteString("</ul>\n")

	return sb.String()
}

func formatItem(rec *conference.Record) string {
	name := html.EscapeString(rec.Name)
	if rec.URL != "" {
		name = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(rec.URL), name)
	}

	item := fmt.Sprintf("<li><b>%s</b> %s", rec.Date.Format(conference.DateLayout), name)
	if rec.Location != "" {
		item += " - " + html.EscapeString(rec.Location)
	}
	if len(rec.Keywords) > 0 {
		item += fmt.Sprintf("<br><i>%d keyword%s:</i> %s",
			len(rec.Keywords), pluralize(len(rec.Keywords)), html.EscapeString(strings.Join(rec.Keywords, ", ")))
	}
	if len(rec.Speakers) > 0 {
		item += "<br><i>Speakers:</i> " + html.EscapeString(strings.Join(rec.Speakers, ", "))
	}
	if program, ok := rec.ProgramURL(); ok {
		item += fmt.Sprintf(`<br><a href="%s">Program</a>`, html.EscapeString(program))
	}
	return item + "</li>\n"
}

// FormatSummary returns a one-line summary of list: how many conferences are in
// range and the date of the latest one.
func FormatSummary(list *conference.List) string {
	latest, ok := list.Latest()
	if !ok {
		return "No conferences in range"
	}
	return fmt.Sprintf("%d conference%s in range, the latest on %s",
		list.Len(), pluralize(list.Len()), latest.Format(conference.DateLayout))
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
