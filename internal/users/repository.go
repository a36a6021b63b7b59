package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/shared"
)

// Repository provides PostgreSQL backed persistence for user accounts and
// their role/permission joins.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, password_hash, COALESCE(nickname, ''), COALESCE(avatar, ''), is_active, created_at`

// FindByUsername fetches an account by login name.
func (r *Repository) FindByUsername(ctx context.Context, username string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username)
	return scanUser(row)
}

// FindByID fetches an account by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// ListUsers returns all accounts ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// RoleCodesByUserID returns the distinct role codes granted to a user.
func (r *Repository) RoleCodesByUserID(ctx context.Context, userID int64) ([]string, error) {
	return r.listStrings(ctx, `
		SELECT DISTINCT r.role_code
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.role_code`, userID)
}

// RoleNamesByUserID returns the distinct display names of a user's roles.
func (r *Repository) RoleNamesByUserID(ctx context.Context, userID int64) ([]string, error) {
	return r.listStrings(ctx, `
		SELECT DISTINCT r.role_name
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.role_name`, userID)
}

// PermissionsByUserID returns the distinct non-empty permission strings a
// user holds through action-type menu grants, merged across all roles.
func (r *Repository) PermissionsByUserID(ctx context.Context, userID int64) ([]string, error) {
	return r.listStrings(ctx, `
		SELECT DISTINCT m.perms
		FROM menus m
		INNER JOIN role_menus rm ON rm.menu_id = m.id
		INNER JOIN user_roles ur ON ur.role_id = rm.role_id
		WHERE ur.user_id = $1
		  AND m.perms IS NOT NULL
		  AND m.perms <> ''
		ORDER BY m.perms`, userID)
}

func (r *Repository) listStrings(ctx context.Context, query string, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func scanUser(row pgx.Row) (auth.User, error) {
	var user auth.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Nickname, &user.Avatar, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, shared.ErrNotFound
		}
		return auth.User{}, err
	}
	return user, nil
}
