// Package handler fronts the external warehouse API. The service adds
// permission gating and audit logging; the data itself lives remotely.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/gate"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
	"opsdesk/internal/transport/http/shared"
	"opsdesk/internal/warehouse"
	"opsdesk/pkg/domerr"
	"opsdesk/pkg/requestcontext"
)

// Client is the warehouse API boundary consumed by this handler.
type Client interface {
	List(ctx context.Context) ([]warehouse.Warehouse, error)
	Create(ctx context.Context, create warehouse.CreateRequest) (warehouse.Warehouse, error)
}

// Handler handles warehouse endpoints.
type Handler struct {
	logger *slog.Logger
	client Client
	gate   *gate.Gate
}

func New(client Client, g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, client: client, gate: g}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.gate.Require(rbac.PermWarehousesView)).Get("/warehouses", h.handleList)
	r.With(h.gate.Require(rbac.PermWarehousesCreate)).Post("/warehouses", h.handleCreate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.client.List(ctx)
	if err != nil {
		h.writeAPIError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"warehouses": records})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req warehouse.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Name == "" {
		shared.WriteError(w, domerr.New(domerr.CodeBadRequest, "name is required"))
		return
	}
	created, err := h.client.Create(ctx, req)
	if err != nil {
		h.writeAPIError(w, r, err)
		return
	}
	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "warehouse_created", "warehouses", map[string]any{
			"name": created.Name,
		})
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

// writeAPIError surfaces upstream failures with their status and body text;
// there is no retry here, the caller decides what to do with the failure.
func (h *Handler) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "warehouse API call failed",
		"error", err,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	var apiErr *warehouse.APIError
	if errors.As(err, &apiErr) {
		shared.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":             "warehouse_api_error",
			"upstream_status":   apiErr.StatusCode,
			"error_description": apiErr.Body,
		})
		return
	}
	shared.WriteError(w, domerr.New(domerr.CodeUnavailable, "warehouse API unreachable"))
}
