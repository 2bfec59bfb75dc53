// Package httptransport assembles the public router from the per-module
// handlers. Transport concerns stay here; business logic lives in the
// services the handlers delegate to.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opsdesk/internal/platform/metrics"
	"opsdesk/internal/platform/middleware"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries the cross-cutting pieces every route shares.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	SessionBuilder middleware.SessionBuilder
}

// NewRouter wires the shared middleware chain and mounts each handler.
// Gating happens per route inside the handlers, so the session middleware here
// only establishes identity; it never rejects.
func NewRouter(deps Deps, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Trace)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.WithSession(deps.SessionBuilder))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
