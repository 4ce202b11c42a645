// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

// Package api provides the optional operational HTTP listener.
//
// The sync job itself serves no data API; this listener only exposes
// liveness and Prometheus scrape endpoints while a run is in flight, for
// schedulers and monitoring that want them. It is disabled by default.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syncfold/membersync/internal/logging"
)

// NewRouter builds the operational router: GET /healthz and GET /metrics.
func NewRouter() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Server wraps the operational HTTP listener with start/stop lifecycle.
type Server struct {
	srv *http.Server
}

// NewServer creates an operational server bound to addr.
func NewServer(addr string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving on a background goroutine. Listener errors other
// than graceful shutdown are logged, not fatal: the sync run matters more
// than the scrape endpoint.
func (s *Server) Start() {
	go func() {
		logging.Info().Str("addr", s.srv.Addr).Msg("Metrics listener starting")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("Metrics listener failed")
		}
	}()
}

// Shutdown stops the listener, waiting for in-flight scrapes up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
