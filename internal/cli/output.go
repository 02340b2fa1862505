package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/calendar"
	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/hunt"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatICS   OutputFormat = "ics"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatTable, FormatJSON, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'table', 'json' or 'ics')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time        `json:"checked_at"`
	Found       int              `json:"found"`
	Latest      string           `json:"latest,omitempty"`
	Count       int              `json:"count"`
	Conferences *conference.List `json:"conferences"`
}

// NewOutputResult builds the output of a pipeline run.
func NewOutputResult(r *hunt.Result) *OutputResult {
	out := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		Found:       r.Found,
		Count:       r.Conferences.Len(),
		Conferences: r.Conferences,
	}
	if !r.Latest.IsZero() {
		out.Latest = r.Latest.Format(conference.DateLayout)
	}
	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, table conference.TableOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Conferences))
		return err
	case FormatTable:
		if result.Count > 0 {
			if err := result.Conferences.WriteTable(w, table); err != nil {
				return err
			}
		}
		return writeTotals(w, result)
	case FormatText:
		if result.Count > 0 {
			fmt.Fprint(w, result.Conferences.String())
		}
		return writeTotals(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeTotals(w io.Writer, result *OutputResult) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No conferences found.")
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d of %d conferences in range", result.Count, result.Found)
	if err != nil {
		return err
	}
	if result.Latest != "" {
		fmt.Fprintf(w, ", latest on %s", result.Latest)
	}
	fmt.Fprintln(w)
	return nil
}
