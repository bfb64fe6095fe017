package usecases

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const DefaultExportBatchSize = 500

type ExportTicketsCommand struct {
	Principal common.Principal
	Filter    dto.ReportFilterRequest
	Format    dto.ExportFormat
}

// ExportTicketsUseCase writes matching tickets to a temporary file in
// batches, then hands the finished file to the caller. The file is removed
// before Execute returns, whatever the outcome.
type ExportTicketsUseCase struct {
	repo      ticket.ReportRepository
	writers   WriterFactory
	audit     AuditRecorder
	tempDir   string
	batchSize int
	logger    logger.Interface
	now       func() time.Time
}

func NewExportTicketsUseCase(
	repo ticket.ReportRepository,
	writers WriterFactory,
	audit AuditRecorder,
	tempDir string,
	batchSize int,
	logger logger.Interface,
) *ExportTicketsUseCase {
	if batchSize <= 0 {
		batchSize = DefaultExportBatchSize
	}
	return &ExportTicketsUseCase{
		repo:      repo,
		writers:   writers,
		audit:     audit,
		tempDir:   tempDir,
		batchSize: batchSize,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

// Execute builds the export and calls deliver with it. Errors returned by
// deliver are passed through unchanged.
func (uc *ExportTicketsUseCase) Execute(ctx context.Context, cmd ExportTicketsCommand, deliver func(*dto.ExportFile) error) error {
	if err := requirePermission(cmd.Principal, permission.ReportsExport); err != nil {
		return err
	}
	if !cmd.Format.IsValid() {
		return errors.NewValidationError("unsupported export format: " + string(cmd.Format))
	}
	filter, err := parseFilter(cmd.Filter)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(uc.tempDir, "csc-export-*."+string(cmd.Format))
	if err != nil {
		uc.logger.Errorw("failed to create export file", "error", err)
		return errors.NewInternalError("failed to export tickets")
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			uc.logger.Warnw("failed to remove export file", "path", tmp.Name(), "error", err)
		}
	}()

	rows, err := uc.writeRows(ctx, tmp, cmd.Format, filter)
	if err != nil {
		uc.logger.Errorw("failed to write export", "format", cmd.Format, "user_id", cmd.Principal.UserID, "error", err)
		return errors.NewInternalError("failed to export tickets")
	}

	size, err := tmp.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		uc.logger.Errorw("failed to rewind export file", "error", err)
		return errors.NewInternalError("failed to export tickets")
	}

	file := &dto.ExportFile{
		Filename:    fmt.Sprintf("tickets-report-%s.%s", biztime.DateKey(uc.now()), cmd.Format),
		ContentType: cmd.Format.ContentType(),
		Size:        size,
		Rows:        rows,
		Body:        tmp,
	}
	if err := deliver(file); err != nil {
		return err
	}

	uc.audit.RecordBestEffort(ctx, cmd.Principal.AuditActor(), audit.ActionReportExported, "report", "tickets", map[string]any{
		"format":     string(cmd.Format),
		"rows":       rows,
		"start_date": cmd.Filter.StartDate,
		"end_date":   cmd.Filter.EndDate,
		"area":       cmd.Filter.Area,
		"status":     cmd.Filter.Status,
	})
	uc.logger.Infow("tickets exported", "format", cmd.Format, "rows", rows, "user_id", cmd.Principal.UserID)
	return nil
}

func (uc *ExportTicketsUseCase) writeRows(ctx context.Context, w io.Writer, format dto.ExportFormat, filter ticket.ReportFilter) (int, error) {
	rw, err := uc.writers.NewWriter(format, w)
	if err != nil {
		return 0, err
	}
	if err := rw.WriteHeader(dto.ExportColumns); err != nil {
		return 0, err
	}

	now := uc.now()
	rows := 0
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		batch, err := uc.repo.ExportBatch(ctx, filter, afterID, uc.batchSize)
		if err != nil {
			return rows, fmt.Errorf("export batch after %d: %w", afterID, err)
		}
		for _, t := range batch {
			if err := rw.WriteRow(dto.ToExportRow(t, now).Values()); err != nil {
				return rows, err
			}
			rows++
			afterID = t.ID()
		}
		if len(batch) < uc.batchSize {
			break
		}
	}
	return rows, rw.Close()
}
