package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wcloud/dynamicmenu/internal/auth"
)

// CachedDirectory decorates a credential store adapter with a short-TTL
// redis cache. It is an opt-in latency optimization: a disabled account or
// a stripped role keeps its old authorities for at most one TTL, so the
// TTL bounds revocation delay. With the cache off (TTL zero) every request
// re-queries the directory.
//
// Cache errors degrade to the inner adapter; redis being down never fails
// authentication on its own.
type CachedDirectory struct {
	inner  auth.Directory
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedDirectory constructs the decorator.
func NewCachedDirectory(inner auth.Directory, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDirectory{inner: inner, client: client, ttl: ttl, logger: logger}
}

// FindByUsername implements auth.Directory. Negative results (unknown
// users) are not cached; enumeration attempts should keep paying the
// lookup cost.
func (d *CachedDirectory) FindByUsername(ctx context.Context, username string) (auth.User, error) {
	key := fmt.Sprintf("authz:user:%s", username)
	var cached auth.User
	if d.get(ctx, key, &cached) {
		return cached, nil
	}
	user, err := d.inner.FindByUsername(ctx, username)
	if err != nil {
		return auth.User{}, err
	}
	d.set(ctx, key, user)
	return user, nil
}

// RoleCodesByUserID implements auth.Directory.
func (d *CachedDirectory) RoleCodesByUserID(ctx context.Context, userID int64) ([]string, error) {
	return d.cachedStrings(ctx, fmt.Sprintf("authz:roles:%d", userID), func() ([]string, error) {
		return d.inner.RoleCodesByUserID(ctx, userID)
	})
}

// PermissionsByUserID implements auth.Directory.
func (d *CachedDirectory) PermissionsByUserID(ctx context.Context, userID int64) ([]string, error) {
	return d.cachedStrings(ctx, fmt.Sprintf("authz:perms:%d", userID), func() ([]string, error) {
		return d.inner.PermissionsByUserID(ctx, userID)
	})
}

func (d *CachedDirectory) cachedStrings(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	var cached []string
	if d.get(ctx, key, &cached) {
		return cached, nil
	}
	values, err := load()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	d.set(ctx, key, values)
	return values, nil
}

func (d *CachedDirectory) get(ctx context.Context, key string, target any) bool {
	payload, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("authority cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		d.logger.Warn("authority cache payload corrupt", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (d *CachedDirectory) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := d.client.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.logger.Warn("authority cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
