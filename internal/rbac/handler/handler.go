// Package handler exposes role administration: inspecting grants and
// replacing the custom role's permission set.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/gate"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
	"opsdesk/internal/transport/http/shared"
	"opsdesk/pkg/domerr"
)

// Handler handles role administration endpoints.
type Handler struct {
	logger   *slog.Logger
	registry *rbac.Registry
	gate     *gate.Gate
}

func New(registry *rbac.Registry, g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, registry: registry, gate: g}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.gate.Require(rbac.PermRolesView)).Get("/roles", h.handleList)
	r.With(h.gate.Require(rbac.PermRolesEdit)).Put("/roles/custom/permissions", h.handleReplaceCustom)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]string, len(rbac.Roles()))
	for _, role := range rbac.Roles() {
		tokens := h.registry.PermissionsFor(role).Tokens()
		sort.Strings(tokens)
		out[string(role)] = tokens
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"roles": out})
}

type replaceRequest struct {
	Permissions []string `json:"permissions"`
}

// handleReplaceCustom swaps the custom role's whole permission set. Only the
// custom role is writable: the built-in roles are seeded at startup and stay
// fixed for the process lifetime.
func (h *Handler) handleReplaceCustom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "invalid request body"))
		return
	}
	h.registry.Replace(rbac.RoleCustom, req.Permissions)

	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "role_permissions_replaced", "roles", map[string]any{
			"name":             string(rbac.RoleCustom),
			"permission_count": len(req.Permissions),
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
