// Package authhttp exposes the login and current-user endpoints on top of
// the authentication core.
package authhttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/menu"
	"github.com/wcloud/dynamicmenu/internal/platform/httpx"
	"github.com/wcloud/dynamicmenu/internal/token"
	"github.com/wcloud/dynamicmenu/internal/users"
	"github.com/wcloud/dynamicmenu/jobs"
)

// AuditTrail records successful logins off the request path.
type AuditTrail interface {
	EnqueueLoginAudit(ctx context.Context, payload jobs.LoginAuditPayload) (*asynq.TaskInfo, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *auth.Service
	codec     *token.Codec
	menus     *menu.Service
	users     *users.Service
	audit     AuditTrail
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. audit may be nil when the job
// queue is not configured.
func NewHandler(logger *slog.Logger, service *auth.Service, codec *token.Codec, menus *menu.Service, userService *users.Service, audit AuditTrail) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		codec:     codec,
		menus:     menus,
		users:     userService,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountPublicRoutes registers the routes reachable without a token.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/login", h.login)
}

// MountProtectedRoutes registers routes requiring an authenticated
// principal in context.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string       `json:"token"`
	UserID      int64        `json:"userId"`
	Username    string       `json:"username"`
	Nickname    string       `json:"nickname"`
	Menus       []*menu.Node `json:"menus"`
	Permissions []string     `json:"permissions"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	principal, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user := principal.User

	signed, err := h.codec.Issue(user.Username, map[string]any{"userId": user.ID})
	if err != nil {
		h.logger.Error("issue token", slog.String("username", user.Username), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	menus, err := h.menus.UserTree(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("login menu tree", slog.Int64("user_id", user.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.recordLogin(r, user)
	h.logger.Info("login succeeded", slog.String("username", user.Username), slog.Int64("user_id", user.ID))

	permissions := principal.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	httpx.OK(w, loginResponse{
		Token:       signed,
		UserID:      user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
		Menus:       menus,
		Permissions: permissions,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Unauthorized(w)
		return
	}
	detail, err := h.users.Detail(r.Context(), principal.User.ID)
	if err != nil {
		h.logger.Error("current user detail", slog.Int64("user_id", principal.User.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, detail)
}

// recordLogin enqueues the audit event; failure to enqueue never fails the
// login itself.
func (h *Handler) recordLogin(r *http.Request, user auth.User) {
	if h.audit == nil {
		return
	}
	payload := jobs.LoginAuditPayload{
		UserID:    user.ID,
		Username:  user.Username,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		At:        time.Now().UTC(),
	}
	if _, err := h.audit.EnqueueLoginAudit(r.Context(), payload); err != nil {
		h.logger.Warn("enqueue login audit", slog.String("username", user.Username), slog.Any("error", err))
	}
}
