package usecases

import (
	"context"
	"io"

	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
)

// RowWriter encodes export rows into one file format.
type RowWriter interface {
	WriteHeader(columns []string) error
	WriteRow(values []any) error
	// Close flushes any buffered output; it does not close the underlying writer.
	Close() error
}

type WriterFactory interface {
	NewWriter(format dto.ExportFormat, w io.Writer) (RowWriter, error)
}

type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, actor audit.Actor, action audit.Action, resourceType, resourceID string, details map[string]any)
}
