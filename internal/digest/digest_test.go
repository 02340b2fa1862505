package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

func record(name string, date time.Time) *conference.Record {
	return conference.NewRecord(conference.Summary{
		Name:     name,
		Location: "Delft, Netherlands",
		Date:     date,
		URL:      "https://example.com/" + strings.ToLower(strings.Fields(name)[0]),
	})
}

func TestSubject(t *testing.T) {
	got := Subject(time.Date(2026, time.October, 14, 7, 0, 0, 0, time.UTC))
	if want := "Your conference update 2026-10-14"; got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestFormatDigest(t *testing.T) {
	qip := record("QIP <2027>", time.Date(2027, time.January, 24, 0, 0, 0, 0, time.UTC))
	qip.Keywords = []string{"quantum", "qubit"}
	qip.Speakers = []string{"Ada Lovelace"}
	qip.Attributes[conference.ProgramURLKey] = "https://example.com/qip/program"

	list := conference.NewList(
		qip,
		record("TQC Workshop", time.Date(2026, time.December, 3, 0, 0, 0, 0, time.UTC)),
		record("Winter School", time.Date(2026, time.December, 14, 0, 0, 0, 0, time.UTC)),
	)

	msg := FormatDigest(list)

	checks := []string{
		"<h1>Upcoming conferences</h1>",
		"3 conferences in range, the latest on 2027-01-24",
		"<h2>December 2026</h2>",
		"<h2>January 2027</h2>",
		`<a href="https://example.com/tqc">TQC Workshop</a> - Delft, Netherlands`,
		"QIP &lt;2027&gt;",
		"2 keywords:</i> quantum, qubit",
		"<i>Speakers:</i> Ada Lovelace",
		`<a href="https://example.com/qip/program">Program</a>`,
	}
	for _, want := range checks {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatDigest() missing %q\n%s", want, msg)
		}
	}

	if strings.Count(msg, "<h2>December 2026</h2>") != 1 {
		t.Error("December heading repeated")
	}
	if strings.Index(msg, "December 2026") > strings.Index(msg, "January 2027") {
		t.Error("months out of order")
	}
	if strings.Count(msg, "<ul>") != strings.Count(msg, "</ul>") {
		t.Error("unbalanced lists")
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	msg := FormatDigest(conference.NewList())
	if !strings.Contains(msg, "No upcoming conferences") {
		t.Errorf("FormatDigest(empty) = %q", msg)
	}
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		name string
		list *conference.List
		want string
	}{
		{
			name: "empty",
			list: conference.NewList(),
			want: "No conferences in range",
		},
		{
			name: "single",
			list: conference.NewList(record("TQC Workshop", time.Date(2026, time.December, 3, 0, 0, 0, 0, time.UTC))),
			want: "1 conference in range, the latest on 2026-12-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSummary(tt.list); got != tt.want {
				t.Errorf("FormatSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
