// Package handler exposes user administration. Every route is permission
// gated and every mutation lands in the activity log.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/gate"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
	"opsdesk/internal/transport/http/shared"
	"opsdesk/internal/users"
	"opsdesk/pkg/domerr"
)

// Handler handles user administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *users.Service
	gate    *gate.Gate
}

func New(service *users.Service, g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, gate: g}
}

// Register mounts the user routes. Reads are view-level gated; destructive
// routes carry their own token so a role can see users without touching them.
func (h *Handler) Register(r chi.Router) {
	r.With(h.gate.Require(rbac.PermUsersView)).Get("/users", h.handleList)
	r.With(h.gate.Require(rbac.PermUsersView)).Get("/users/{id}", h.handleGet)
	r.With(h.gate.Require(rbac.PermUsersCreate)).Post("/users", h.handleCreate)
	r.With(h.gate.Require(rbac.PermUsersEdit)).Put("/users/{id}", h.handleUpdate)
	r.With(h.gate.Require(rbac.PermUsersDelete)).Delete("/users/{id}", h.handleDelete)
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(u users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// handleList returns all users plus action-level gate decisions, so the
// caller renders edit/delete controls disabled instead of discovering a 403
// on click.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	list, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]userResponse, len(list))
	for i, u := range list {
		out[i] = toResponse(u)
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"users": out,
		"actions": map[string]gate.Decision{
			"create": gate.Check(sess, rbac.PermUsersCreate),
			"edit":   gate.Check(sess, rbac.PermUsersEdit),
			"delete": gate.Check(sess, rbac.PermUsersDelete),
		},
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(user))
}

type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "invalid request body"))
		return
	}
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "unknown role"))
		return
	}
	user, err := h.service.Create(ctx, req.Name, req.Email, req.Password, role)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "user_created", "users", map[string]any{
			"name": user.Name,
			"role": string(user.Role),
		})
	}
	shared.WriteJSON(w, http.StatusCreated, toResponse(user))
}

type updateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "invalid request body"))
		return
	}
	upd := users.Update{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role, err := rbac.ParseRole(*req.Role)
		if err != nil {
			shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "unknown role"))
			return
		}
		upd.Role = &role
	}
	user, err := h.service.Update(ctx, chi.URLParam(r, "id"), upd)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "user_updated", "users", map[string]any{
			"name": user.Name,
			"role": string(user.Role),
		})
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	name := h.service.DisplayName(ctx, id)
	if err := h.service.Delete(ctx, id); err != nil {
		shared.WriteError(w, err)
		return
	}
	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "user_deleted", "users", map[string]any{
			"name": name,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
