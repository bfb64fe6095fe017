package permission

// Enforcer answers whether a role may perform action on resource.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// Checker is the Enforcer backed directly by the static table.
type Checker struct{}

func (Checker) Enforce(role, resource, action string) (bool, error) {
	return HasPermission(Role(role), Permission(resource+":"+action)), nil
}
