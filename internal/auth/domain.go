package auth

import (
	"strings"
	"time"

	"github.com/wcloud/dynamicmenu/internal/shared"
)

// User represents a stored user account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Nickname     string
	Avatar       string
	IsActive     bool
	CreatedAt    time.Time
}

// AuthenticatedUser is the request-scoped principal: the account snapshot
// plus the role codes and permission strings resolved for it. It is built
// fresh for every authentication event and never shared across requests.
type AuthenticatedUser struct {
	User        User
	RoleCodes   []string
	Permissions []string

	authorities []string
}

// NewAuthenticatedUser resolves the authority set for a user. Nil role or
// permission slices are treated as empty. The authority set is the
// deduplicated union of both lists, first-seen order preserved so that
// serialization stays deterministic.
func NewAuthenticatedUser(user User, roleCodes, permissions []string) *AuthenticatedUser {
	seen := make(map[string]struct{}, len(roleCodes)+len(permissions))
	authorities := make([]string, 0, len(roleCodes)+len(permissions))
	for _, list := range [][]string{roleCodes, permissions} {
		for _, a := range list {
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			authorities = append(authorities, a)
		}
	}
	return &AuthenticatedUser{
		User:        user,
		RoleCodes:   roleCodes,
		Permissions: permissions,
		authorities: authorities,
	}
}

// Authorities returns the deduplicated union of role codes and permissions.
func (u *AuthenticatedUser) Authorities() []string {
	return u.authorities
}

// HasAuthority reports whether the principal holds the given role code or
// permission string.
func (u *AuthenticatedUser) HasAuthority(authority string) bool {
	for _, a := range u.authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds the role. The name may be
// given with or without the ROLE_ prefix; either way only prefixed
// authorities can satisfy it, so a plain permission string never passes
// a role check.
func (u *AuthenticatedUser) HasRole(role string) bool {
	if !strings.HasPrefix(role, shared.RolePrefix) {
		role = shared.RolePrefix + role
	}
	return u.HasAuthority(role)
}
