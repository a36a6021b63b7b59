package roles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wcloud/dynamicmenu/internal/auth"
	"github.com/wcloud/dynamicmenu/internal/menu"
	"github.com/wcloud/dynamicmenu/internal/platform/httpx"
	"github.com/wcloud/dynamicmenu/internal/shared"
)

// Handler manages role administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	menus     *menu.Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance. The menu service backs the full
// tree view used by the grant UI.
func NewHandler(logger *slog.Logger, service *Service, menus *menu.Service) *Handler {
	return &Handler{logger: logger, service: service, menus: menus, validator: validator.New()}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthority(shared.PermRolesList))
		r.Get("/list", h.list)
		r.Get("/{id}", h.detail)
		r.Get("/{id}/menus", h.menuIDs)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthority(shared.PermRolesEdit))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Put("/{id}/menus", h.assignMenus)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthority(shared.PermMenusList))
		r.Get("/menu/tree", h.fullMenuTree)
	})
}

type roleRequest struct {
	Code     string `json:"roleCode" validate:"required"`
	Name     string `json:"roleName" validate:"required"`
	IsActive bool   `json:"isActive"`
}

type assignMenusRequest struct {
	MenuIDs []int64 `json:"menuIds"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Role{}
	}
	httpx.OK(w, list)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRole(w, r)
	if !ok {
		return
	}
	role, err := h.service.Create(r.Context(), req.Code, req.Name, req.IsActive)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeRole(w, r)
	if !ok {
		return
	}
	role, err := h.service.Update(r.Context(), id, req.Code, req.Name, req.IsActive)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, true)
}

func (h *Handler) menuIDs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}
	ids, err := h.service.MenuIDs(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, ids)
}

func (h *Handler) assignMenus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}
	var req assignMenusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.service.AssignMenus(r.Context(), id, req.MenuIDs); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, true)
}

func (h *Handler) fullMenuTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.menus.FullTree(r.Context())
	if err != nil {
		h.logger.Error("full menu tree", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, tree)
}

func (h *Handler) roleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid role id")
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeRole(w http.ResponseWriter, r *http.Request) (roleRequest, bool) {
	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "malformed request body")
		return roleRequest{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "role code and name are required")
		return roleRequest{}, false
	}
	return req, true
}
