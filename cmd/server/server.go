// cmd/server/server.go
package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtbook/internal/config"
)

const healthCheckTimeout = 2 * time.Second

// pinger is satisfied by *db.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := ChainMiddleware(
		router,
		WithLogging,
		WithRecovery,
		WithRequestID,
	)

	registerRoutes(router, cfg, a.db)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, database pinger) {
	// Health check
	mux.HandleFunc("/health", handleHealth(database))

	if cfg.Features.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
}

func handleHealth(database pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := database.PingContext(ctx); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed: database unreachable")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
