package api

import (
	"net/http"

	"github.com/angelmondragon/shopper-backend/pkg/config"
)

// NewServer returns the HTTP server that cmd/api runs, bounded by the
// configured timeouts.
func NewServer(cfg config.HTTPConfig, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
