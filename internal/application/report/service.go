// Package report serves the reporting and export endpoints.
package report

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/application/report/usecases"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type Service struct {
	getSummary      *usecases.GetSummaryUseCase
	exportTickets   *usecases.ExportTicketsUseCase
	getUserActivity *usecases.GetUserActivityUseCase
}

func NewService(
	repo ticket.ReportRepository,
	writers usecases.WriterFactory,
	audit usecases.AuditRecorder,
	tempDir string,
	batchSize int,
	logger logger.Interface,
) *Service {
	return &Service{
		getSummary:      usecases.NewGetSummaryUseCase(repo, logger),
		exportTickets:   usecases.NewExportTicketsUseCase(repo, writers, audit, tempDir, batchSize, logger),
		getUserActivity: usecases.NewGetUserActivityUseCase(repo, logger),
	}
}

func (s *Service) Summary(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) (*dto.SummaryResponse, error) {
	return s.getSummary.Execute(ctx, p, req)
}

func (s *Service) Export(ctx context.Context, cmd usecases.ExportTicketsCommand, deliver func(*dto.ExportFile) error) error {
	return s.exportTickets.Execute(ctx, cmd, deliver)
}

func (s *Service) UserActivity(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) ([]*dto.UserActivityResponse, error) {
	return s.getUserActivity.Execute(ctx, p, req)
}
