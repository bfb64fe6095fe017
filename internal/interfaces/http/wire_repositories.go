package http

import (
	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/infrastructure/repository"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo          user.Repository
	ticketRepo        ticket.Repository
	ticketUpdateRepo  ticket.UpdateRepository
	ticketCounterRepo *repository.TicketCounterRepository
	reportRepo        ticket.ReportRepository
	categoryRepo      category.Repository
	notificationRepo  notification.Repository
	settingRepo       setting.Repository
	auditRepo         audit.Repository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:          repository.NewUserRepository(db, log),
		ticketRepo:        repository.NewTicketRepository(db),
		ticketUpdateRepo:  repository.NewTicketUpdateRepository(db),
		ticketCounterRepo: repository.NewTicketCounterRepository(db),
		reportRepo:        repository.NewReportRepository(db),
		categoryRepo:      repository.NewCategoryRepository(db),
		notificationRepo:  repository.NewNotificationRepository(db),
		settingRepo:       repository.NewSettingRepository(db, log),
		auditRepo:         repository.NewAuditRepository(db),
	}
}
