// Package common holds types shared by every application service.
package common

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
)

// Principal is the authenticated caller, as carried by the bearer token.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   permission.Role
}

func (p Principal) Can(perm permission.Permission) bool {
	return permission.HasPermission(p.Role, perm)
}

func (p Principal) SeesAllTickets() bool {
	return permission.SeesAllTickets(p.Role)
}

func (p Principal) Party() ticket.Party {
	return ticket.Party{ID: p.UserID, Name: p.Name, Email: p.Email}
}

func (p Principal) AuditActor() audit.Actor {
	return audit.Actor{UserID: p.UserID, Email: p.Email}
}

// Scope is the ticket visibility of p.
func (p Principal) Scope() ticket.Scope {
	return ticket.Scope{RequesterID: p.UserID, All: p.SeesAllTickets()}
}

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
