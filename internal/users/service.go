package users

import (
	"context"
	"log/slog"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/menu"
	"github.com/wcloud/dynamicmenu/internal/shared"
)

// RepositoryPort defines data access methods for user accounts. The
// Repository and the redis CachedDirectory both satisfy the directory
// subset consumed by the authentication pipeline.
type RepositoryPort interface {
	auth.Directory
	FindByID(ctx context.Context, id int64) (auth.User, error)
	ListUsers(ctx context.Context) ([]auth.User, error)
	RoleNamesByUserID(ctx context.Context, userID int64) ([]string, error)
}

// Service handles user business logic and doubles as the credential store
// adapter for the authentication pipeline.
type Service struct {
	repo   RepositoryPort
	menus  *menu.Service
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, menus *menu.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, menus: menus, logger: logger}
}

// FindByUsername implements auth.Directory.
func (s *Service) FindByUsername(ctx context.Context, username string) (auth.User, error) {
	if username == "" {
		return auth.User{}, shared.ErrNotFound
	}
	return s.repo.FindByUsername(ctx, username)
}

// RoleCodesByUserID implements auth.Directory.
func (s *Service) RoleCodesByUserID(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.RoleCodesByUserID(ctx, userID)
}

// PermissionsByUserID implements auth.Directory.
func (s *Service) PermissionsByUserID(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.PermissionsByUserID(ctx, userID)
}

// Detail assembles the full administrative view of one user: account,
// roles, permissions and navigation tree.
func (s *Service) Detail(ctx context.Context, userID int64) (*Detail, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail, err := s.buildDetail(ctx, user)
	if err != nil {
		return nil, err
	}
	menus, err := s.menus.UserTree(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	detail.Menus = menus
	return detail, nil
}

// ListWithDetail returns every user with roles and permissions attached.
// Menu trees are deliberately omitted in list context; they fan out into
// one large join per user.
func (s *Service) ListWithDetail(ctx context.Context) ([]*Detail, error) {
	accounts, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]*Detail, 0, len(accounts))
	for _, user := range accounts {
		detail, err := s.buildDetail(ctx, user)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *Service) buildDetail(ctx context.Context, user auth.User) (*Detail, error) {
	roleCodes, err := s.repo.RoleCodesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	roleNames, err := s.repo.RoleNamesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.repo.PermissionsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if roleCodes == nil {
		roleCodes = []string{}
	}
	if roleNames == nil {
		roleNames = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}
	return &Detail{
		ID:          user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
		Avatar:      user.Avatar,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		RoleCodes:   roleCodes,
		RoleNames:   roleNames,
		Permissions: permissions,
	}, nil
}
