package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wcloud/dynamicmenu/internal/platform/db"
	"github.com/wcloud/dynamicmenu/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for roles and their
// menu grants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, role_code, role_name, is_active, created_at, updated_at`

// List returns all roles ordered by code.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY role_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Code, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches a role by id.
func (r *Repository) Get(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Code, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// Create inserts a new role. A conflicting role code maps to
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, code, name string, isActive bool) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (role_code, role_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING `+roleColumns, code, name, isActive).
		Scan(&role.ID, &role.Code, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Role{}, shared.ErrDuplicate
		}
		return Role{}, err
	}
	return role, nil
}

// Update rewrites a role's code, name and state.
func (r *Repository) Update(ctx context.Context, id int64, code, name string, isActive bool) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		UPDATE roles
		SET role_code = $2, role_name = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+roleColumns, id, code, name, isActive).
		Scan(&role.ID, &role.Code, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Role{}, shared.ErrDuplicate
		}
		return Role{}, err
	}
	return role, nil
}

// Delete removes a role and its grants. Returns shared.ErrNotFound if the
// role does not exist.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MenuIDs returns the menu ids currently granted to a role.
func (r *Repository) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT menu_id FROM role_menus WHERE role_id = $1 ORDER BY menu_id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceMenus atomically swaps a role's menu grants for the given set.
func (r *Repository) ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_menus WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, menuID := range menuIDs {
			batch.Queue(`INSERT INTO role_menus (role_id, menu_id) VALUES ($1, $2)`, roleID, menuID)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
