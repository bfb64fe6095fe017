package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	vo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const (
	MaxNameLength       = 255
	MaxDepartmentLength = 100
	MaxPositionLength   = 100
)

// User is created on first sign-in and never hard-deleted; admins deactivate instead.
type User struct {
	id          string
	email       *vo.Email
	name        string
	role        permission.Role
	department  string
	position    string
	isActive    bool
	lastLoginAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewUser(email *vo.Email, name string, role permission.Role, department string) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email.LocalPart()
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("name exceeds maximum length of %d characters", MaxNameLength)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	department = strings.TrimSpace(department)
	if utf8.RuneCountInString(department) > MaxDepartmentLength {
		return nil, fmt.Errorf("department exceeds maximum length of %d characters", MaxDepartmentLength)
	}

	now := biztime.NowUTC()
	return &User{
		id:         uuid.NewString(),
		email:      email,
		name:       name,
		role:       role,
		department: department,
		isActive:   true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructUser(
	id string,
	email *vo.Email,
	name string,
	role permission.Role,
	department string,
	position string,
	isActive bool,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:          id,
		email:       email,
		name:        name,
		role:        role,
		department:  department,
		position:    position,
		isActive:    isActive,
		lastLoginAt: lastLoginAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (u *User) ID() string              { return u.id }
func (u *User) Email() *vo.Email        { return u.email }
func (u *User) Name() string            { return u.name }
func (u *User) Role() permission.Role   { return u.role }
func (u *User) Department() string      { return u.department }
func (u *User) Position() string        { return u.position }
func (u *User) IsActive() bool          { return u.isActive }
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time    { return u.createdAt }
func (u *User) UpdatedAt() time.Time    { return u.updatedAt }

// RecordLogin stamps a successful sign-in and refreshes the display name
// and department reported by the identity provider when present.
func (u *User) RecordLogin(name, department string) error {
	if !u.isActive {
		return ErrUserInactive
	}
	if name = strings.TrimSpace(name); name != "" && utf8.RuneCountInString(name) <= MaxNameLength {
		u.name = name
	}
	if department = strings.TrimSpace(department); department != "" && utf8.RuneCountInString(department) <= MaxDepartmentLength {
		u.department = department
	}
	now := biztime.NowUTC()
	u.lastLoginAt = &now
	u.updatedAt = now
	return nil
}

// PromoteTo raises the role to at least role. Configuration-driven roles
// (e.g. super admin allow-list) are re-applied on every login this way,
// never lowering a role an admin granted.
func (u *User) PromoteTo(role permission.Role) bool {
	if !role.IsValid() || !role.Outranks(u.role) {
		return false
	}
	u.role = role
	u.updatedAt = biztime.NowUTC()
	return true
}

// AdminUpdate holds the fields an administrator may change; nil means unchanged.
type AdminUpdate struct {
	Role       *permission.Role
	Department *string
	Position   *string
	IsActive   *bool
}

// Apply validates and applies upd, returning the old and new values of changed fields.
func (u *User) Apply(upd AdminUpdate) (before, after map[string]any, err error) {
	next := *u
	before, after = map[string]any{}, map[string]any{}

	if upd.Role != nil {
		if !upd.Role.IsValid() {
			return nil, nil, fmt.Errorf("invalid role: %s", *upd.Role)
		}
		if *upd.Role != u.role {
			before["role"], after["role"] = u.role.String(), upd.Role.String()
			next.role = *upd.Role
		}
	}
	if upd.Department != nil {
		d := strings.TrimSpace(*upd.Department)
		if utf8.RuneCountInString(d) > MaxDepartmentLength {
			return nil, nil, fmt.Errorf("department exceeds maximum length of %d characters", MaxDepartmentLength)
		}
		if d != u.department {
			before["department"], after["department"] = u.department, d
			next.department = d
		}
	}
	if upd.Position != nil {
		p := strings.TrimSpace(*upd.Position)
		if utf8.RuneCountInString(p) > MaxPositionLength {
			return nil, nil, fmt.Errorf("position exceeds maximum length of %d characters", MaxPositionLength)
		}
		if p != u.position {
			before["position"], after["position"] = u.position, p
			next.position = p
		}
	}
	if upd.IsActive != nil && *upd.IsActive != u.isActive {
		before["is_active"], after["is_active"] = u.isActive, *upd.IsActive
		next.isActive = *upd.IsActive
	}

	*u = next
	if len(after) > 0 {
		u.updatedAt = biztime.NowUTC()
	}
	return before, after, nil
}
