package sink

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/matzehuels/wordmosaic/pkg/freq"
)

// WriteCSV writes table as CSV with a word,count header and one row per
// word in rank order.
func WriteCSV(w io.Writer, table freq.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "count"}); err != nil {
		return err
	}
	for _, row := range table {
		if err := cw.Write([]string{row.Word, strconv.Itoa(row.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSV returns table as CSV bytes.
func RenderCSV(table freq.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
