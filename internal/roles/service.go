package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wcloud/dynamicmenu/internal/shared"
)

// RepositoryPort defines persistence operations for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (Role, error)
	Create(ctx context.Context, code, name string, isActive bool) (Role, error)
	Update(ctx context.Context, id int64, code, name string, isActive bool) (Role, error)
	Delete(ctx context.Context, id int64) error
	MenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error
}

// Service wraps role administration rules.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get fetches one role.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and inserts a role.
func (s *Service) Create(ctx context.Context, code, name string, isActive bool) (Role, error) {
	code, name, err := normalizeRole(code, name)
	if err != nil {
		return Role{}, err
	}
	role, err := s.repo.Create(ctx, code, name, isActive)
	if err != nil {
		return Role{}, err
	}
	s.logger.Info("role created", slog.Int64("role_id", role.ID), slog.String("role_code", role.Code))
	return role, nil
}

// Update validates and rewrites a role.
func (s *Service) Update(ctx context.Context, id int64, code, name string, isActive bool) (Role, error) {
	code, name, err := normalizeRole(code, name)
	if err != nil {
		return Role{}, err
	}
	return s.repo.Update(ctx, id, code, name, isActive)
}

// Delete removes a role.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("role deleted", slog.Int64("role_id", id))
	return nil
}

// MenuIDs returns the menu grants of a role.
func (s *Service) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	if _, err := s.repo.Get(ctx, roleID); err != nil {
		return nil, err
	}
	ids, err := s.repo.MenuIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// AssignMenus replaces a role's menu grants. An empty set revokes
// everything, which is a legitimate administrative action.
func (s *Service) AssignMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	if _, err := s.repo.Get(ctx, roleID); err != nil {
		return err
	}
	if err := s.repo.ReplaceMenus(ctx, roleID, menuIDs); err != nil {
		return err
	}
	s.logger.Info("role menus assigned", slog.Int64("role_id", roleID), slog.Int("menu_count", len(menuIDs)))
	return nil
}

// normalizeRole trims and checks role fields. Role codes must carry the
// ROLE_ marker; without it the code would be indistinguishable from a
// permission string in the authority set.
func normalizeRole(code, name string) (string, string, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return "", "", fmt.Errorf("%w: role code and name are required", shared.ErrValidation)
	}
	if !strings.HasPrefix(code, shared.RolePrefix) {
		return "", "", fmt.Errorf("%w: role code must start with %s", shared.ErrValidation, shared.RolePrefix)
	}
	return code, name, nil
}
