package export

import (
	"encoding/csv"
	"io"
)

// utf8BOM lets spreadsheet apps detect the encoding of accented headers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvWriter struct {
	w *csv.Writer
}

func newCSVWriter(w io.Writer) (*csvWriter, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, err
	}
	return &csvWriter{w: csv.NewWriter(w)}, nil
}

func (c *csvWriter) WriteHeader(columns []string) error {
	return c.w.Write(columns)
}

func (c *csvWriter) WriteRow(values []any) error {
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = formatCell(v)
	}
	return c.w.Write(record)
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}
