// Package export writes report rows as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/application/report/usecases"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const timeLayout = "02/01/2006 15:04"

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

var _ usecases.WriterFactory = (*Factory)(nil)

func (f *Factory) NewWriter(format dto.ExportFormat, w io.Writer) (usecases.RowWriter, error) {
	switch format {
	case dto.FormatCSV:
		return newCSVWriter(w)
	case dto.FormatExcel:
		return newExcelWriter(w)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// formatCell renders a value as text in the business timezone; nil is empty.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return biztime.FormatInBizTimezone(x, timeLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
