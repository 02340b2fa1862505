package conference

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableOptions selects the optional columns of a table.
type TableOptions struct {
	Keywords bool
	Speakers bool
	URLs     bool
}

// String renders one "date name - location" line per record.
func (l *List) String() string {
	var sb strings.Builder
	for _, r := range l.records {
		sb.WriteString(r.Line())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Table renders the list as an aligned text table.
func (l *List) Table(opts TableOptions) string {
	var sb strings.Builder
	_ = l.WriteTable(&sb, opts)
	return sb.String()
}

// WriteTable writes the list as an aligned text table to w.
func (l *List) WriteTable(w io.Writer, opts TableOptions) error {
	header := []string{"Date", "Name", "Location"}
	if opts.Keywords {
		header = append(header, "Keywords")
	}
	if opts.Speakers {
		header = append(header, "Speakers")
	}
	if opts.URLs {
		header = append(header, "URL")
	}

	rows := make([][]string, 0, len(l.records))
	for _, r := range l.records {
		row := []string{r.Date.Format(DateLayout), r.Name, r.Location}
		if opts.Keywords {
			row = append(row, fmt.Sprintf("(%d) %s", len(r.Keywords), strings.Join(r.Keywords, ", ")))
		}
		if opts.Speakers {
			row = append(row, strings.Join(r.Speakers, ", "))
		}
		if opts.URLs {
			row = append(row, r.URL)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if _, err := io.WriteString(w, formatRow(header, widths)); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := io.WriteString(w, formatRow(sep, widths)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := io.WriteString(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			padded[i] = cell
			continue
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(padded, "  ") + "\n"
}
