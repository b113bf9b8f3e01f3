package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"edfinfo/internal/eyefile"
)

// Alignment controls a table column's horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable renders rows under headers with the rounded style.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// Title returns the display label of f ("Serial Number").
func Title(f eyefile.Field) string {
	// Casers keep state between calls and cannot be shared across goroutines.
	return cases.Title(language.English).String(f.Label())
}

// WriteTable renders one table per record listing every field, its value,
// and the phase that produced it. Unset fields show "-".
func WriteTable(w io.Writer, rec *eyefile.Record) error {
	rows := make([][]string, 0, len(eyefile.AllFields()))
	for _, f := range eyefile.AllFields() {
		value := rec.Get(f)
		origin := rec.Origin(f).String()
		if value == "" {
			value, origin = "-", "-"
		}
		rows = append(rows, []string{Title(f), value, origin})
	}
	if _, err := io.WriteString(w, rec.Path()+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, RenderTable([]string{"Field", "Value", "Source"}, rows, nil)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
