package httpserver

import (
	"net/http"
	"time"
)

// New builds the opsdesk HTTP server. The write timeout leaves headroom for
// large activity CSV exports; everything else is tight because the remaining
// surface is small JSON request/response pairs.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
