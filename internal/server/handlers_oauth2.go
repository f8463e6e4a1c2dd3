package server

import (
	"errors"
	"net/http"

	"github.com/digestcode/digest/internal/auth"
)

// handleAuthorize handles GET /api/oauth2/authorize. It opens an
// authorization transaction and returns it for the consent screen;
// nothing is granted until the decision endpoint resolves it.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	principal, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	clientID := query.Get("client_id")
	if clientID == "" {
		WriteError(w, http.StatusBadRequest, "client_id is required")
		return
	}

	tx, err := s.app.OAuth2.Authorize(r.Context(), clientID, query.Get("redirect_uri"), query.Get("scope"), principal.Username)
	if err != nil {
		s.writeOAuth2Error(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tx)
}

// handleDecision handles POST /api/oauth2/decision, resolving a pending
// authorization with the user's approval or denial.
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	principal, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
		Approved      bool   `json:"approved"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	code, err := s.app.OAuth2.Decide(r.Context(), req.TransactionID, principal.Username, req.Approved)
	if err != nil {
		s.writeOAuth2Error(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"code": code})
}

// handleToken handles POST /api/oauth2/token, the token endpoint for
// both supported grant types. Client credentials arrive as form fields
// in the OAuth2 style.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	clientID := r.PostFormValue("client_id")
	clientSecret := r.PostFormValue("client_secret")
	if clientID == "" || clientSecret == "" {
		s.writeOAuth2Error(w, auth.ErrUnauthorizedClient)
		return
	}

	var pair *auth.TokenPair
	var err error
	switch grantType := r.PostFormValue("grant_type"); grantType {
	case "client_credentials":
		pair, err = s.app.OAuth2.ExchangeClientCredentials(r.Context(), clientID, clientSecret, r.PostFormValue("scope"))
	case "refresh_token":
		pair, err = s.app.OAuth2.ExchangeRefreshToken(r.Context(), clientID, clientSecret, r.PostFormValue("refresh_token"))
	default:
		WriteErrorWithCode(w, http.StatusBadRequest, "Unsupported grant type", "unsupported_grant_type")
		return
	}
	if err != nil {
		s.writeOAuth2Error(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pair)
}

// writeOAuth2Error maps the grant-flow errors onto HTTP responses with
// OAuth2-style error codes.
func (s *Server) writeOAuth2Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrAuthenticationRequired):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", "authentication_required")
	case errors.Is(err, auth.ErrClientNotFound):
		WriteErrorWithCode(w, http.StatusBadRequest, "Client not found", "invalid_client")
	case errors.Is(err, auth.ErrUnauthorizedClient):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Unauthorized client", "unauthorized_client")
	case errors.Is(err, auth.ErrAccessDenied):
		WriteErrorWithCode(w, http.StatusForbidden, "Access denied", "access_denied")
	case errors.Is(err, auth.ErrInvalidAccessToken), errors.Is(err, auth.ErrAccessTokenExpired):
		WriteErrorWithCode(w, http.StatusBadRequest, "Invalid or expired grant", "invalid_grant")
	case errors.Is(err, auth.ErrInvalidRefreshToken), errors.Is(err, auth.ErrRefreshTokenExpired):
		WriteErrorWithCode(w, http.StatusBadRequest, "Invalid or expired refresh token", "invalid_grant")
	default:
		WriteErrorWithCode(w, http.StatusInternalServerError, "Server error", "server_error")
	}
}
