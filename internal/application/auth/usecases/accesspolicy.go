package usecases

import (
	"fmt"
	"strings"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	vo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
)

// AccessPolicy decides who may sign in and the role granted on sign-in.
// With no allowed domains or e-mails configured every address is admitted.
type AccessPolicy struct {
	allowedDomains map[string]struct{}
	allowedEmails  map[string]struct{}
	superAdmins    map[string]struct{}
	domainRoles    map[string]permission.Role
}

func NewAccessPolicy(allowedDomains, allowedEmails, superAdmins []string, domainRoles map[string]string) (*AccessPolicy, error) {
	p := &AccessPolicy{
		allowedDomains: toSet(allowedDomains),
		allowedEmails:  toSet(allowedEmails),
		superAdmins:    toSet(superAdmins),
		domainRoles:    make(map[string]permission.Role, len(domainRoles)),
	}
	for domain, name := range domainRoles {
		role, ok := permission.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("invalid role %q for domain %q", name, domain)
		}
		p.domainRoles[normalize(domain)] = role
	}
	return p, nil
}

func (p *AccessPolicy) Allows(email *vo.Email) bool {
	if len(p.allowedDomains) == 0 && len(p.allowedEmails) == 0 {
		return true
	}
	if _, ok := p.allowedEmails[email.String()]; ok {
		return true
	}
	if _, ok := p.superAdmins[email.String()]; ok {
		return true
	}
	_, ok := p.allowedDomains[email.Domain()]
	return ok
}

// RoleFor resolves the configured role: super admin list, then domain map, then USER.
func (p *AccessPolicy) RoleFor(email *vo.Email) permission.Role {
	if _, ok := p.superAdmins[email.String()]; ok {
		return permission.RoleSuperAdmin
	}
	if role, ok := p.domainRoles[email.Domain()]; ok {
		return role
	}
	return permission.RoleUser
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = normalize(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func normalize(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
}
