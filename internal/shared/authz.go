package shared

// Core platform permissions. Values match the perms column of action-type
// menu rows, so grants are managed through the role/menu administration.
const (
	PermUsersList = "sys:user:list"

	PermRolesList = "sys:role:list"
	PermRolesEdit = "sys:role:edit"

	PermMenusList = "sys:menu:list"
)

// RolePrefix marks role codes among plain permission strings. Role-level
// checks only ever match authorities carrying this prefix.
const RolePrefix = "ROLE_"

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersList,
		PermRolesList,
		PermRolesEdit,
		PermMenusList,
	}
}
