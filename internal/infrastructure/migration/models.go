package migration

import (
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

// Models lists every table managed by the application, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.TicketModel{},
		&models.TicketUpdateModel{},
		&models.TicketCounterModel{},
		&models.AuditLogModel{},
		&models.NotificationModel{},
		&models.SystemSettingModel{},
		&models.CategoryModel{},
	}
}
