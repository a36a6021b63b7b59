package roles

import "time"

// Role is a named grouping of menu/permission grants. Code carries the
// ROLE_ prefix distinguishing role authorities from permission strings.
type Role struct {
	ID        int64     `json:"id"`
	Code      string    `json:"roleCode"`
	Name      string    `json:"roleName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createTime"`
	UpdatedAt time.Time `json:"updateTime"`
}
