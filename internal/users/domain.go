package users

import (
	"time"

	"github.com/wcloud/dynamicmenu/internal/menu"
)

// Detail is the administrative view of a user: the account plus its
// resolved roles and permissions and, when requested individually, the
// navigation tree.
type Detail struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Nickname    string       `json:"nickname"`
	Avatar      string       `json:"avatar"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createTime"`
	RoleCodes   []string     `json:"roleCodes"`
	RoleNames   []string     `json:"roleNames"`
	Permissions []string     `json:"permissions"`
	Menus       []*menu.Node `json:"menus,omitempty"`
}
