// Package server exposes the REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/digestcode/digest/internal/app"
	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/models"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app          *app.App
	server       *http.Server
	logger       *common.Logger
	shutdownChan chan struct{}
}

// SetShutdownChannel sets the channel that will be signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requireUser returns the authenticated principal or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok || principal.Username == "" {
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", "authentication_required")
		return nil, false
	}
	return principal, true
}

// requirePermission runs the access decision for one operation and
// writes the matching error response on failure.
func (s *Server) requirePermission(w http.ResponseWriter, r *http.Request, resource models.ResourceType, action models.Action, level models.AccessLevel) (*auth.Principal, bool) {
	principal, _ := auth.PrincipalFrom(r.Context())

	err := auth.Decide(principal, resource, action, level)
	switch {
	case err == nil:
		return principal, true
	case errors.Is(err, auth.ErrAuthenticationRequired):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", "authentication_required")
	default:
		WriteErrorWithCode(w, http.StatusForbidden, "No permission", "no_permission")
	}
	return nil, false
}
