package server

import (
	"net/http"
	"time"

	"github.com/digestcode/digest/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/validate", s.handleValidate)

	// Users and memberships
	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/", s.routeUser)
	mux.HandleFunc("/api/memberships", s.handleMemberships)

	// OAuth2 clients
	mux.HandleFunc("/api/clients", s.handleClients)
	mux.HandleFunc("/api/clients/", s.routeClient)

	// OAuth2 grant flow
	mux.HandleFunc("/api/oauth2/authorize", s.handleAuthorize)
	mux.HandleFunc("/api/oauth2/decision", s.handleDecision)
	mux.HandleFunc("/api/oauth2/token", s.handleToken)

	// Content
	mux.HandleFunc("/api/courses", s.handleCourses)
	mux.HandleFunc("/api/courses/", s.routeCourse)
	mux.HandleFunc("/api/posts", s.handlePosts)
	mux.HandleFunc("/api/posts/", s.routePost)

	// Sandbox
	mux.HandleFunc("/api/sandbox", s.handleSandbox)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := "ok"
	storage := "ok"
	if err := s.app.Storage.Ping(r.Context()); err != nil {
		status = "degraded"
		storage = err.Error()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":                 status,
		"storage":                storage,
		"uptime":                 time.Since(s.app.StartupTime).String(),
		"pending_authorizations": s.app.OAuth2.PendingCount(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
