package usecases

import (
	"strings"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/report/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

func parseFilter(req dto.ReportFilterRequest) (ticket.ReportFilter, error) {
	var f ticket.ReportFilter

	if s := strings.TrimSpace(req.StartDate); s != "" {
		from, err := biztime.ParseFlexible(s)
		if err != nil {
			return f, errors.NewValidationError("invalid start_date", err.Error())
		}
		f.From = &from
	}
	if s := strings.TrimSpace(req.EndDate); s != "" {
		to, err := biztime.ParseFlexible(s)
		if err != nil {
			return f, errors.NewValidationError("invalid end_date", err.Error())
		}
		if len(s) == len(time.DateOnly) {
			to = biztime.EndOfDayUTC(to)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, errors.NewValidationError("end_date must not be before start_date")
	}

	if req.Area != "" {
		a, err := vo.NewArea(req.Area)
		if err != nil {
			return f, errors.NewValidationError(err.Error())
		}
		f.Area = &a
	}
	if req.Status != "" {
		s, err := vo.NewTicketStatus(req.Status)
		if err != nil {
			return f, errors.NewValidationError(err.Error())
		}
		f.Status = &s
	}
	return f, nil
}

func requirePermission(p common.Principal, perm permission.Permission) error {
	if !p.Can(perm) {
		return errors.NewForbiddenError("insufficient permissions", string(perm))
	}
	return nil
}
