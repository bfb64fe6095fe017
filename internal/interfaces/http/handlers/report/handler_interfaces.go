package report

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/application/report/usecases"
)

type reportService interface {
	Summary(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) (*dto.SummaryResponse, error)
	Export(ctx context.Context, cmd usecases.ExportTicketsCommand, deliver func(*dto.ExportFile) error) error
	UserActivity(ctx context.Context, p common.Principal, req dto.ReportFilterRequest) ([]*dto.UserActivityResponse, error)
}
