package menu

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/platform/httpx"
)

// Handler serves menu tree endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers menu routes. Callers are expected to mount these
// behind the authenticator.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/tree", h.userTree)
}

func (h *Handler) userTree(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Unauthorized(w)
		return
	}
	tree, err := h.service.UserTree(r.Context(), principal.User.ID)
	if err != nil {
		h.logger.Error("build user menu tree", slog.Int64("user_id", principal.User.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, tree)
}
