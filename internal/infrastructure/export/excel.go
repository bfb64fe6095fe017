package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Tickets"

// excelWriter streams rows so large exports never build the sheet in memory.
type excelWriter struct {
	out         io.Writer
	file        *excelize.File
	stream      *excelize.StreamWriter
	headerStyle int
	row         int
}

func newExcelWriter(w io.Writer) (*excelWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, err
	}
	stream, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &excelWriter{out: w, file: f, stream: stream, headerStyle: style}, nil
}

func (e *excelWriter) WriteHeader(columns []string) error {
	// widths must be set before the first row
	if err := e.stream.SetColWidth(1, len(columns), 18); err != nil {
		return err
	}
	cells := make([]any, len(columns))
	for i, c := range columns {
		cells[i] = excelize.Cell{StyleID: e.headerStyle, Value: c}
	}
	return e.writeCells(cells)
}

func (e *excelWriter) WriteRow(values []any) error {
	cells := make([]any, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case time.Time:
			cells[i] = formatCell(x)
		default:
			cells[i] = x
		}
	}
	return e.writeCells(cells)
}

func (e *excelWriter) writeCells(cells []any) error {
	e.row++
	axis, err := excelize.CoordinatesToCellName(1, e.row)
	if err != nil {
		return err
	}
	return e.stream.SetRow(axis, cells)
}

func (e *excelWriter) Close() error {
	defer e.file.Close()
	if err := e.stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := e.file.WriteTo(e.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
