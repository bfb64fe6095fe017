package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return database.NewTestDB(t,
		&models.UserModel{},
		&models.TicketModel{},
		&models.TicketUpdateModel{},
		&models.TicketCounterModel{},
		&models.AuditLogModel{},
		&models.NotificationModel{},
		&models.SystemSettingModel{},
		&models.CategoryModel{},
	)
}

func requester(id string) ticket.Party {
	return ticket.Party{ID: id, Name: "User " + id, Email: id + "@corp.com"}
}

func newTestTicket(t *testing.T, number string, by ticket.Party) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(ticket.NewTicketParams{
		Title:       "Printer is offline",
		Description: "The printer on the second floor is offline",
		Area:        vo.AreaIT,
		Board:       vo.BoardIncidents,
		Priority:    vo.PriorityHigh,
		Requester:   by,
	})
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber(number))
	return tk
}
