package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAuthenticatedUserDeduplicatesAuthorities(t *testing.T) {
	principal := NewAuthenticatedUser(User{ID: 1, Username: "alice"},
		[]string{"ROLE_ADMIN", "sys:user:list"},
		[]string{"sys:user:list"},
	)

	assert.Equal(t, []string{"ROLE_ADMIN", "sys:user:list"}, principal.Authorities())
}

func TestNewAuthenticatedUserPreservesFirstSeenOrder(t *testing.T) {
	principal := NewAuthenticatedUser(User{},
		[]string{"ROLE_B", "ROLE_A"},
		[]string{"sys:z:list", "sys:a:list", "ROLE_B"},
	)

	assert.Equal(t, []string{"ROLE_B", "ROLE_A", "sys:z:list", "sys:a:list"}, principal.Authorities())
}

func TestNewAuthenticatedUserToleratesNilAndEmpty(t *testing.T) {
	principal := NewAuthenticatedUser(User{}, nil, []string{"", "sys:user:list", ""})

	assert.Equal(t, []string{"sys:user:list"}, principal.Authorities())

	empty := NewAuthenticatedUser(User{}, nil, nil)
	assert.Empty(t, empty.Authorities())
	assert.NotNil(t, empty.Authorities())
}

func TestHasAuthority(t *testing.T) {
	principal := NewAuthenticatedUser(User{}, []string{"ROLE_ADMIN"}, []string{"sys:user:list"})

	assert.True(t, principal.HasAuthority("ROLE_ADMIN"))
	assert.True(t, principal.HasAuthority("sys:user:list"))
	assert.False(t, principal.HasAuthority("sys:role:edit"))
	assert.False(t, principal.HasAuthority(""))
}

func TestHasRole(t *testing.T) {
	principal := NewAuthenticatedUser(User{}, []string{"ROLE_ADMIN"}, []string{"admin"})

	assert.True(t, principal.HasRole("ADMIN"))
	assert.True(t, principal.HasRole("ROLE_ADMIN"))
	// The bare "admin" authority is a permission string, not a role.
	assert.False(t, principal.HasRole("admin"))
	assert.False(t, principal.HasRole("USER"))
}
