package conference

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateParseError reports a date string that cannot be resolved to a calendar date.
type DateParseError struct {
	Input  string
	Reason string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parsing date %q: %s", e.Input, e.Reason)
}

// YearLookup maps a full month name, as printed in a listing page's month group
// heading, to the year of that group. It is scoped to a single listing page.
type YearLookup map[string]int

// Add records the year of a month group, replacing any year already recorded
// for that month.
func (y YearLookup) Add(month time.Month, year int) {
	y[month.String()] = year
}

// Year returns the year recorded for month. Keys are matched case-insensitively.
func (y YearLookup) Year(month time.Month) (int, bool) {
	if year, ok := y[month.String()]; ok {
		return year, true
	}
	for name, year := range y {
		if strings.EqualFold(strings.TrimSpace(name), month.String()) {
			return year, true
		}
	}
	return 0, false
}

// ParseMonth resolves an English month name. Full names ("January"), three-letter
// abbreviations ("Jan") and longer prefixes ("Sept") are accepted in any case.
func ParseMonth(token string) (time.Month, error) {
	tok := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(token), "."))
	if len(tok) >= 3 {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), tok) {
				return m, nil
			}
		}
	}
	return 0, &DateParseError{Input: token, Reason: "unrecognized month"}
}

// ParseYearHeading parses a month group heading such as "January 2025".
func ParseYearHeading(text string) (time.Month, int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, &DateParseError{Input: text, Reason: "expected \"<Month> <Year>\""}
	}
	month, err := ParseMonth(fields[0])
	if err != nil {
		return 0, 0, &DateParseError{Input: text, Reason: "unrecognized month"}
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, &DateParseError{Input: text, Reason: "non-numeric year"}
	}
	return month, year, nil
}

// ResolveListingDate builds the date of a listing line from its month token and
// day, taking the year from the page's month group headings.
func ResolveListingDate(monthToken string, day int, years YearLookup) (time.Time, error) {
	input := fmt.Sprintf("%s %d", monthToken, day)
	month, err := ParseMonth(monthToken)
	if err != nil {
		return time.Time{}, &DateParseError{Input: input, Reason: "unrecognized month"}
	}
	year, ok := years.Year(month)
	if !ok {
		return time.Time{}, &DateParseError{Input: input, Reason: "no year heading for " + month.String()}
	}
	return buildDate(input, year, month, day)
}

// ParseListingDate parses a listing date token such as "Jan 15".
func ParseListingDate(token string, years YearLookup) (time.Time, error) {
	fields := strings.Fields(token)
	if len(fields) != 2 {
		return time.Time{}, &DateParseError{Input: token, Reason: "expected \"<Mon> <Day>\""}
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, &DateParseError{Input: token, Reason: "non-numeric day"}
	}
	return ResolveListingDate(fields[0], day, years)
}

// ParseDetailDate parses the date printed on a conference's own page, of the form
// "[Weekday] <Month> <Day[-Day2]> <Year>". For a day range only the first day is
// used.
func ParseDetailDate(text string) (time.Time, error) {
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(fields) == 4 {
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return time.Time{}, &DateParseError{Input: text, Reason: "expected \"[Weekday] <Month> <Day> <Year>\""}
	}

	month, err := ParseMonth(fields[0])
	if err != nil {
		return time.Time{}, &DateParseError{Input: text, Reason: "unrecognized month"}
	}

	dayField := fields[1]
	if i := strings.IndexAny(dayField, "-–"); i >= 0 {
		dayField = dayField[:i]
	}
	day, err := strconv.Atoi(dayField)
	if err != nil {
		return time.Time{}, &DateParseError{Input: text, Reason: "non-numeric day"}
	}

	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, &DateParseError{Input: text, Reason: "non-numeric year"}
	}

	return buildDate(text, year, month, day)
}

// buildDate rejects days that time.Date would silently roll into the next month.
func buildDate(input string, year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Month() != month || t.Day() != day {
		return time.Time{}, &DateParseError{Input: input, Reason: "day out of range"}
	}
	return t, nil
}
