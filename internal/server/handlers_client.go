package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// handleClients handles /api/clients: registration (POST) and listing
// (GET). Client administration sits behind the client resource type, so
// only memberships that grant it can touch the registry.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleClientRegister(w, r)
	case http.MethodGet:
		s.handleClientList(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleClientRegister(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requirePermission(w, r, models.ResourceClient, models.ActionCreate, models.FullAccess)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		RedirectURI string `json:"redirect_uri"`
		Scope       string `json:"scope"`
		ExpiryDate  string `json:"expiry_date"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "Client name is required")
		return
	}

	client := &models.Client{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Secret:       uuid.NewString(),
		Description:  req.Description,
		RedirectURI:  req.RedirectURI,
		Permissions:  auth.DecodeScopes(req.Scope),
		RegisteredAt: time.Now(),
		RegisteredBy: principal.Username,
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid expiry date, want RFC3339")
			return
		}
		client.ExpiryDate = expiry
	}

	if err := s.app.Storage.Clients().Create(r.Context(), client); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to register client")
		return
	}

	s.logger.Info().
		Str("client_id", client.ID).
		Str("registered_by", principal.Username).
		Msg("Client registered")

	// the secret is returned once, at registration
	WriteJSON(w, http.StatusCreated, client)
}

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePermission(w, r, models.ResourceClient, models.ActionView, models.LimitedAccess); !ok {
		return
	}

	clients, err := s.app.Storage.Clients().List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	sanitized := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		sanitized = append(sanitized, c.Sanitized())
	}
	WriteJSON(w, http.StatusOK, sanitized)
}

// routeClient handles /api/clients/{id}.
func (s *Server) routeClient(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, "/api/clients/", 0)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Client id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleClientGet(w, r, id)
	case http.MethodPut:
		s.handleClientUpdate(w, r, id)
	case http.MethodDelete:
		s.handleClientDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleClientGet(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceClient, models.ActionView, models.LimitedAccess); !ok {
		return
	}

	client, err := s.app.Storage.Clients().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Client not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get client")
		return
	}
	WriteJSON(w, http.StatusOK, client.Sanitized())
}

func (s *Server) handleClientUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceClient, models.ActionModify, models.FullAccess); !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		RedirectURI *string `json:"redirect_uri"`
		Scope       *string `json:"scope"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	client, err := s.app.Storage.Clients().Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Client not found")
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Description != nil {
		client.Description = *req.Description
	}
	if req.RedirectURI != nil {
		client.RedirectURI = *req.RedirectURI
	}
	if req.Scope != nil {
		client.Permissions = auth.DecodeScopes(*req.Scope)
	}

	if err := s.app.Storage.Clients().Update(r.Context(), client); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}
	WriteJSON(w, http.StatusOK, client.Sanitized())
}

func (s *Server) handleClientDelete(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceClient, models.ActionDelete, models.FullAccess); !ok {
		return
	}

	if err := s.app.Storage.Clients().Delete(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Client not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	s.logger.Info().Str("client_id", id).Msg("Client deleted")
	w.WriteHeader(http.StatusNoContent)
}
