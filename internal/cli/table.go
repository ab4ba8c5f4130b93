package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matzehuels/wordmosaic/pkg/freq"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable formats rows as a rounded box table.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
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
		if i < len(aligns) && aligns[i] == alignRight {
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

// renderFrequencyTable formats the top rows of t with each word's share of
// all counted words. top <= 0 shows every row.
func renderFrequencyTable(t freq.Table, top int) string {
	total := t.Total()
	if top > 0 {
		t = t.Top(top)
	}
	rows := make([][]string, len(t))
	for i, w := range t {
		share := 0.0
		if total > 0 {
			share = 100 * float64(w.Count) / float64(total)
		}
		rows[i] = []string{
			strconv.Itoa(w.Rank),
			w.Word,
			strconv.Itoa(w.Count),
			fmt.Sprintf("%.1f%%", share),
		}
	}
	return renderTable(
		[]string{"Rank", "Word", "Count", "Share"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	)
}
