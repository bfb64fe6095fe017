package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	vo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
)

func mustEmail(t *testing.T, s string) *vo.Email {
	t.Helper()
	e, err := vo.NewEmail(s)
	require.NoError(t, err)
	return e
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(mustEmail(t, "Alice@Corp.com"), "  Alice  ", permission.RoleUser, "TI")
	require.NoError(t, err)

	_, err = uuid.Parse(u.ID())
	assert.NoError(t, err)
	assert.Equal(t, "alice@corp.com", u.Email().String())
	assert.Equal(t, "Alice", u.Name())
	assert.True(t, u.IsActive())
	assert.Nil(t, u.LastLoginAt())
}

func TestNewUser_DefaultsNameToLocalPart(t *testing.T) {
	u, err := NewUser(mustEmail(t, "bob@corp.com"), "", permission.RoleUser, "")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Name())
}

func TestNewUser_RejectsUnknownRole(t *testing.T) {
	_, err := NewUser(mustEmail(t, "bob@corp.com"), "Bob", permission.Role("ROOT"), "")
	assert.Error(t, err)
}

func TestRecordLogin(t *testing.T) {
	u, err := NewUser(mustEmail(t, "bob@corp.com"), "Bob", permission.RoleUser, "")
	require.NoError(t, err)

	require.NoError(t, u.RecordLogin("Bob Silva", "RH"))
	assert.Equal(t, "Bob Silva", u.Name())
	assert.Equal(t, "RH", u.Department())
	assert.NotNil(t, u.LastLoginAt())

	inactive := false
	_, _, err = u.Apply(AdminUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.ErrorIs(t, u.RecordLogin("Bob", ""), ErrUserInactive)
}

func TestPromoteTo_NeverDemotes(t *testing.T) {
	u, err := NewUser(mustEmail(t, "bob@corp.com"), "Bob", permission.RoleAdmin, "")
	require.NoError(t, err)

	assert.False(t, u.PromoteTo(permission.RoleUser))
	assert.Equal(t, permission.RoleAdmin, u.Role())

	assert.True(t, u.PromoteTo(permission.RoleSuperAdmin))
	assert.Equal(t, permission.RoleSuperAdmin, u.Role())
}

func TestApply(t *testing.T) {
	u, err := NewUser(mustEmail(t, "bob@corp.com"), "Bob", permission.RoleUser, "TI")
	require.NoError(t, err)

	role := permission.RoleManager
	dept := "TI"
	pos := "Analyst"
	old, updated, err := u.Apply(AdminUpdate{Role: &role, Department: &dept, Position: &pos})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"role": "USER", "position": ""}, old)
	assert.Equal(t, map[string]any{"role": "MANAGER", "position": "Analyst"}, updated)
	assert.Equal(t, permission.RoleManager, u.Role())
}

func TestApply_InvalidRoleChangesNothing(t *testing.T) {
	u, err := NewUser(mustEmail(t, "bob@corp.com"), "Bob", permission.RoleUser, "TI")
	require.NoError(t, err)

	pos := "Lead"
	bad := permission.Role("OWNER")
	_, _, err = u.Apply(AdminUpdate{Position: &pos, Role: &bad})
	require.Error(t, err)
	assert.Equal(t, "", u.Position())
	assert.Equal(t, permission.RoleUser, u.Role())
}
