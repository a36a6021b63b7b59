package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/wcloud/dynamicmenu/internal/shared"
)

// Directory is the credential store adapter: given a username it returns
// the stored account, and given a user id the role codes and permission
// strings already merged across the role/menu join.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (User, error)
	RoleCodesByUserID(ctx context.Context, userID int64) ([]string, error)
	PermissionsByUserID(ctx context.Context, userID int64) ([]string, error)
}

// Service wraps authentication business rules.
type Service struct {
	directory Directory
	logger    *slog.Logger
}

// NewService constructs a new Service.
func NewService(directory Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{directory: directory, logger: logger}
}

// Authenticate validates username/password credentials and resolves the
// principal. Unknown user, disabled account and wrong password all return
// shared.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*AuthenticatedUser, error) {
	user, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login lookup failed", slog.String("username", username), slog.Any("error", err))
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("login rejected for disabled account", slog.String("username", username))
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login password mismatch", slog.String("username", username))
		return nil, shared.ErrInvalidCredentials
	}
	return s.resolve(ctx, user)
}

// Load rebuilds the principal for an already-authenticated subject. The
// token is never trusted to carry authorities; role and permission sets are
// re-queried on every request so revocation takes effect immediately.
func (s *Service) Load(ctx context.Context, username string) (*AuthenticatedUser, error) {
	user, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	return s.resolve(ctx, user)
}

func (s *Service) resolve(ctx context.Context, user User) (*AuthenticatedUser, error) {
	roleCodes, err := s.directory.RoleCodesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.directory.PermissionsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return NewAuthenticatedUser(user, roleCodes, permissions), nil
}
