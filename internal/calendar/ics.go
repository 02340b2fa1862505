package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

// GenerateICS generates an iCalendar (.ics) file with one all-day event per
// conference.
func GenerateICS(list *conference.List) string {
	return generate(list, time.Now())
}

func generate(list *conference.List, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//conf-hunt//conf-hunt//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, rec := range list.Records() {
		writeEvent(&ics, rec, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, rec *conference.Record, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - stable across exports of the same conference
	ics.WriteString(fmt.Sprintf("UID:%s@conf-hunt\r\n", uid(rec)))

	// DTSTAMP - timestamp when this calendar entry was created
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	// Only the start day is known, so the event spans that one day.
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(rec.Date)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(rec.Date.AddDate(0, 0, 1))))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(rec.Name)))

	if desc := description(rec); desc != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(desc)))
	}
	if rec.Location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(rec.Location)))
	}
	if rec.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", rec.URL))
	}
	if len(rec.Keywords) > 0 {
		ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", categories(rec.Keywords)))
	}

	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func description(rec *conference.Record) string {
	var lines []string
	if len(rec.Speakers) > 0 {
		lines = append(lines, "Speakers: "+strings.Join(rec.Speakers, ", "))
	}
	if program, ok := rec.ProgramURL(); ok {
		lines = append(lines, "Program: "+program)
	}
	if rec.Tags != "" {
		lines = append(lines, "Tags: "+rec.Tags)
	}
	return strings.Join(lines, "\n")
}

func categories(keywords []string) string {
	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = escapeICS(kw)
	}
	return strings.Join(escaped, ",")
}

func uid(rec *conference.Record) string {
	sum := sha1.Sum([]byte(rec.Name + "|" + rec.Date.Format(conference.DateLayout)))
	return hex.EncodeToString(sum[:8])
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
