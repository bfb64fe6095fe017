// Package permission holds the static role to permission table. The casbin
// enforcer is seeded from it; this table stays the single source of truth.
package permission

import "strings"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleUser       Role = "USER"
	RoleViewer     Role = "VIEWER"
)

// Permission is a "resource:action" capability string.
type Permission string

const (
	TicketCreate  Permission = "ticket:create"
	TicketRead    Permission = "ticket:read"
	TicketReadAll Permission = "ticket:read_all"
	TicketUpdate  Permission = "ticket:update"
	TicketDelete  Permission = "ticket:delete"
	TicketAssign  Permission = "ticket:assign"
	TicketClose   Permission = "ticket:close"
	UserManage    Permission = "user:manage"
	RoleManage    Permission = "role:manage"
	SystemAdmin   Permission = "system:admin"
	ReportsView   Permission = "reports:view"
	ReportsExport Permission = "reports:export"
)

// Wildcard grants every permission.
const Wildcard Permission = "*"

var allPermissions = []Permission{
	TicketCreate, TicketRead, TicketReadAll, TicketUpdate, TicketDelete, TicketAssign, TicketClose,
	UserManage, RoleManage, SystemAdmin, ReportsView, ReportsExport,
}

var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {Wildcard},
	RoleAdmin: {
		TicketCreate, TicketRead, TicketReadAll, TicketUpdate, TicketAssign, TicketClose,
		UserManage, ReportsView, ReportsExport,
	},
	RoleManager: {
		TicketCreate, TicketRead, TicketReadAll, TicketUpdate, TicketAssign,
		ReportsView,
	},
	RoleUser:   {TicketCreate, TicketRead},
	RoleViewer: {TicketRead},
}

var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleUser:       2,
	RoleManager:    3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// Outranks reports whether r is strictly above other.
func (r Role) Outranks(other Role) bool {
	return roleRank[r] > roleRank[other]
}

func (p Permission) String() string {
	return string(p)
}

// Split returns the resource and action parts of p.
func (p Permission) Split() (resource, action string) {
	resource, action, _ = strings.Cut(string(p), ":")
	return resource, action
}

// HasPermission reports whether role holds p. Unknown roles hold nothing.
func HasPermission(role Role, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == Wildcard || granted == p {
			return true
		}
	}
	return false
}

// SeesAllTickets reports whether role may read tickets it did not request.
func SeesAllTickets(role Role) bool {
	return HasPermission(role, TicketReadAll)
}

// PermissionsFor expands the permissions of role, resolving the wildcard.
func PermissionsFor(role Role) []Permission {
	granted := rolePermissions[role]
	for _, p := range granted {
		if p == Wildcard {
			out := make([]Permission, len(allPermissions))
			copy(out, allPermissions)
			return out
		}
	}
	out := make([]Permission, len(granted))
	copy(out, granted)
	return out
}

// Policy is one (role, resource, action) row used to seed an enforcer.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// Policies flattens the table. The wildcard becomes ("*", "*").
func Policies() []Policy {
	var out []Policy
	for _, role := range Roles() {
		for _, p := range rolePermissions[role] {
			if p == Wildcard {
				out = append(out, Policy{Role: role.String(), Resource: "*", Action: "*"})
				continue
			}
			res, act := p.Split()
			out = append(out, Policy{Role: role.String(), Resource: res, Action: act})
		}
	}
	return out
}

// Roles lists the known roles from most to least privileged.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleUser, RoleViewer}
}
