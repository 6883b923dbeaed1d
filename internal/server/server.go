package server

import (
	"context"
	"net/http"
	"time"

	"github.com/atendo/backend/internal/auth"
	"github.com/atendo/backend/internal/config"
	"github.com/atendo/backend/internal/dashboard"
	"github.com/atendo/backend/internal/http/handlers"
	"github.com/atendo/backend/internal/middleware"
	"github.com/atendo/backend/internal/observability"
	"github.com/atendo/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.RecordStore) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	creds := auth.NewCredentialStore(cfg.Provisions)
	gateway := dashboard.New(store, cfg.StoreTimeout, cfg.StrictTenantScope)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(creds, tokens).Register(mux)
	handlers.NewDashboardHandler(gateway, tokens).Register(mux)
	mux.Handle("GET /metrics", observability.Handler())

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(
			observability.Instrument(
				middleware.Recovery(mux))))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
