package server

import (
	"errors"
	"net/http"

	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/models"
)

// handleLogin handles POST /api/auth/login. A successful login returns
// the authentication token plus a first-party access token so the
// platform's own front ends can act without the OAuth2 grant flow.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, user, err := s.app.Authentication.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			WriteErrorWithCode(w, http.StatusUnauthorized, "Invalid username or password", "invalid_credentials")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	firstParty := s.app.FirstParty.Issue()
	if firstParty == "" {
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":              token,
		"first_party_access": firstParty,
		"version":            auth.AuthenticationVersion,
		"user":               user.Sanitized(),
	})
}

// handleValidate handles POST /api/auth/validate. It reports whether an
// authentication token is valid and, if so, who it names.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	claims, result := s.app.Authentication.Decode(req.Token)
	resp := map[string]interface{}{
		"valid":   result.Decoded,
		"expired": result.Expired,
		"version": auth.AuthenticationVersion,
	}
	if result.Decoded {
		resp["username"] = claims.Username
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleSandbox handles GET /api/sandbox, a scratch surface for client
// integration testing. It echoes the caller's resolved identity.
func (s *Server) handleSandbox(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	principal, ok := s.requirePermission(w, r, models.ResourceSandbox, models.ActionView, models.LimitedAccess)
	if !ok {
		return
	}

	resp := map[string]interface{}{
		"username":    principal.Username,
		"first_party": principal.FirstParty,
	}
	if principal.Client != nil {
		resp["client_id"] = principal.Client.ID
		resp["scope"] = auth.EncodeScopes(principal.Client.Permissions)
	}
	WriteJSON(w, http.StatusOK, resp)
}
