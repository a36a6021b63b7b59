package menu

import "time"

// Type discriminates menu records. Action rows are permission points, not
// navigable nodes; only their perms string matters.
type Type int

const (
	TypeDirectory Type = 1
	TypePage      Type = 2
	TypeAction    Type = 3
)

// Menu is a flat menu/permission record as stored.
type Menu struct {
	ID        int64  `json:"id"`
	ParentID  int64  `json:"parentId"`
	Name      string `json:"menuName"`
	Icon      string `json:"menuIcon"`
	Type      Type   `json:"menuType"`
	RoutePath string `json:"routePath"`
	Component string `json:"component"`
	Perms     string `json:"perms"`
	Visible   bool   `json:"visible"`
	IsActive  bool   `json:"-"`
	SortOrder *int32 `json:"sortOrder"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Node is the tree form of a record. Children hold sibling order; a fresh
// tree is assembled on every resolution and never mutated afterwards.
type Node struct {
	Menu
	Children []*Node `json:"children"`
}
