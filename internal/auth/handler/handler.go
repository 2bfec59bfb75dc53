// Package handler exposes sign-in and identity inspection endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/auth/device"
	"opsdesk/internal/session"
	"opsdesk/internal/transport/http/shared"
	"opsdesk/internal/users"
	"opsdesk/pkg/domerr"
	"opsdesk/pkg/requestcontext"
)

// UserAuthenticator is the slice of the users service the login flow needs.
type UserAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (users.User, error)
}

// Handler handles authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	users    UserAuthenticator
	sessions *session.Manager
}

func New(users UserAuthenticator, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, users: users, sessions: sessions}
}

// Register mounts the auth routes on the router. Login is deliberately outside
// the session middleware: it creates the session others consume.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "invalid request body"))
		return
	}

	account, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"email", req.Email,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	identity := session.Identity{ID: account.ID, Name: account.Name, Role: account.Role}
	token, err := h.sessions.IssueToken(identity, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "token issuance failed", "error", err)
		shared.WriteError(w, domerr.New(domerr.CodeInternal, "failed to issue token"))
		return
	}

	h.sessions.Authenticated(identity).LogActivity(ctx, "user_logged_in", "auth", map[string]any{
		"device": device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		"ip":     requestcontext.ClientIP(ctx),
	})

	shared.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: account.ID, Name: account.Name, Role: string(account.Role)},
	})
}

// handleMe reports the caller's identity and effective permission tokens, the
// data a front end needs to gate its own controls.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if sess == nil {
		shared.WriteError(w, domerr.New(domerr.CodeUnauthorized, "not signed in"))
		return
	}
	identity, ok := sess.Identity()
	if !ok {
		shared.WriteError(w, domerr.New(domerr.CodeUnauthorized, "not signed in"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"id":   identity.ID,
		"name": identity.Name,
		"role": string(identity.Role),
	})
}
