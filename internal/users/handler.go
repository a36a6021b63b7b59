package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/platform/httpx"
	"github.com/wcloud/dynamicmenu/internal/shared"
)

// Handler manages user administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthority(shared.PermUsersList))
		r.Get("/list", h.listUsers)
		r.Get("/{id}", h.userDetail)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListWithDetail(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, details)
}

func (h *Handler) userDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.logger.Error("user detail", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, detail)
}
