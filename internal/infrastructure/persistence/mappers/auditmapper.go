package mappers

import (
	"fmt"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

func AuditEntryToModel(e *audit.Entry) (*models.AuditLogModel, error) {
	details, err := encodeMap(e.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit details: %w", err)
	}
	actor := e.Actor()
	meta := e.Meta()
	return &models.AuditLogModel{
		ID:           e.ID(),
		UserID:       nullableString(actor.UserID),
		UserEmail:    nullableString(actor.Email),
		Action:       e.Action().String(),
		ResourceType: e.ResourceType(),
		ResourceID:   e.ResourceID(),
		Details:      details,
		IPAddress:    meta.IP,
		UserAgent:    meta.UserAgent,
		CreatedAt:    e.CreatedAt(),
	}, nil
}

func AuditEntryToDomain(m *models.AuditLogModel) (*audit.Entry, error) {
	details, err := decodeMap(m.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to decode details of audit entry %d: %w", m.ID, err)
	}
	return audit.ReconstructEntry(
		m.ID,
		audit.Actor{UserID: derefString(m.UserID), Email: derefString(m.UserEmail)},
		audit.Action(m.Action),
		m.ResourceType,
		m.ResourceID,
		details,
		audit.RequestMeta{IP: m.IPAddress, UserAgent: m.UserAgent},
		m.CreatedAt,
	), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
