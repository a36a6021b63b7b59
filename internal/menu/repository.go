package menu

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to menu records.
type Repository interface {
	// ListByUserID returns the user's merged, deduplicated, enabled menu
	// rows across all of their roles.
	ListByUserID(ctx context.Context, userID int64) ([]Menu, error)
	// ListAll returns every menu row regardless of state or type.
	ListAll(ctx context.Context) ([]Menu, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const menuColumns = `m.id, m.parent_id, m.menu_name, COALESCE(m.menu_icon, ''), m.menu_type,
	COALESCE(m.route_path, ''), COALESCE(m.component, ''), COALESCE(m.perms, ''),
	m.visible, m.is_active, m.sort_order, m.created_at, m.updated_at`

// ListByUserID merges menu rows over user -> roles -> role_menus -> menus.
// DISTINCT collapses rows granted through more than one role.
func (r *PGRepository) ListByUserID(ctx context.Context, userID int64) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT `+menuColumns+`
		FROM menus m
		INNER JOIN role_menus rm ON rm.menu_id = m.id
		INNER JOIN user_roles ur ON ur.role_id = rm.role_id
		WHERE ur.user_id = $1 AND m.is_active
		ORDER BY m.sort_order NULLS LAST, m.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

// ListAll returns the full menu table for administration views.
func (r *PGRepository) ListAll(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+menuColumns+`
		FROM menus m
		ORDER BY m.sort_order NULLS LAST, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

func scanMenus(rows pgx.Rows) ([]Menu, error) {
	var menus []Menu
	for rows.Next() {
		var m Menu
		if err := rows.Scan(&m.ID, &m.ParentID, &m.Name, &m.Icon, &m.Type,
			&m.RoutePath, &m.Component, &m.Perms,
			&m.Visible, &m.IsActive, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return menus, nil
}
