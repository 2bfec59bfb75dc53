// Package handler exposes the activity reporting surface: a filtered listing
// and a CSV export.
package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/activity"
	"opsdesk/internal/activity/format"
	"opsdesk/internal/gate"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
	"opsdesk/internal/transport/http/shared"
	"opsdesk/pkg/domerr"
	"opsdesk/pkg/requestcontext"
)

// Handler handles activity log endpoints.
type Handler struct {
	logger *slog.Logger
	store  activity.Store
	gate   *gate.Gate
}

func New(store activity.Store, g *gate.Gate, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store, gate: g}
}

// Register mounts the routes. Both are view-level gated: a caller without the
// token gets the access-denied envelope, not an empty list.
func (h *Handler) Register(r chi.Router) {
	r.With(h.gate.Require(rbac.PermLogsView)).Get("/activity", h.handleList)
	r.With(h.gate.Require(rbac.PermLogsExport)).Get("/activity/export", h.handleExport)
}

type entryResponse struct {
	ID           string         `json:"id"`
	IdentityID   string         `json:"identity_id"`
	IdentityName string         `json:"identity_name"`
	Action       string         `json:"action"`
	Module       string         `json:"module"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Description  string         `json:"description"`
}

// handleList returns filtered entries, newest first. The store itself promises
// stable insertion order only; the reverse-chronological sort is this view's
// requirement, applied here.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entries, err := h.store.Query(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "activity query failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		shared.WriteError(w, domerr.New(domerr.CodeInternal, "failed to query activity log"))
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = entryResponse{
			ID:           e.ID,
			IdentityID:   e.IdentityID,
			IdentityName: e.IdentityName,
			Action:       e.Action,
			Module:       e.Module,
			Details:      e.Details,
			Timestamp:    e.Timestamp,
			Description:  format.Describe(e),
		}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}

// handleExport streams the filtered entries as a CSV download.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := filterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entries, err := h.store.Query(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "activity export query failed", "error", err)
		shared.WriteError(w, domerr.New(domerr.CodeInternal, "failed to query activity log"))
		return
	}

	if sess, ok := session.FromContext(ctx); ok {
		sess.LogActivity(ctx, "activity_exported", "logs", map[string]any{
			"entry_count": len(entries),
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.ExportFilename(requestcontext.Now(ctx))+`"`)
	if err := format.WriteCSV(w, entries); err != nil {
		h.logger.ErrorContext(ctx, "activity export write failed", "error", err)
	}
}

func filterFromQuery(r *http.Request) (activity.Filter, error) {
	q := r.URL.Query()
	filter := activity.Filter{
		Search:     q.Get("search"),
		IdentityID: q.Get("identity_id"),
		Module:     q.Get("module"),
		Action:     q.Get("action"),
	}
	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return activity.Filter{}, domerr.New(domerr.CodeBadRequest, "since must be RFC3339")
		}
		filter.Since = t
	}
	return filter, nil
}
