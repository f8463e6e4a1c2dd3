package server

import (
	"errors"
	"net/http"

	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// handleUsers handles /api/users: registration (POST, open) and the
// user directory (GET, full user access).
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleRegister(w, r)
	case http.MethodGet:
		s.handleUserList(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string         `json:"username"`
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Profile  models.Profile `json:"profile"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if _, err := s.app.Storage.Users().GetByUsername(r.Context(), req.Username); err == nil {
		WriteErrorWithCode(w, http.StatusConflict, "Username already taken", "username_taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Membership:   "default",
		Profile:      req.Profile,
	}
	if err := s.app.Storage.Users().Create(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.logger.Info().Str("username", user.Username).Msg("User registered")
	WriteJSON(w, http.StatusCreated, user.Sanitized())
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePermission(w, r, models.ResourceUser, models.ActionView, models.FullAccess); !ok {
		return
	}

	users, err := s.app.Storage.Users().List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	sanitized := make([]models.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}
	WriteJSON(w, http.StatusOK, sanitized)
}

// routeUser handles /api/users/{username} and
// /api/users/{username}/membership.
func (s *Server) routeUser(w http.ResponseWriter, r *http.Request) {
	username := pathSegment(r.URL.Path, "/api/users/", 0)
	if username == "" {
		WriteError(w, http.StatusBadRequest, "Username is required")
		return
	}

	if pathSegment(r.URL.Path, "/api/users/", 1) == "membership" {
		s.handleUserMembership(w, r, username)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleUserGet(w, r, username)
	case http.MethodPut:
		s.handleUserUpdate(w, r, username)
	case http.MethodDelete:
		s.handleUserDelete(w, r, username)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// requireUserAccess checks the user-resource permission, with the lower
// self level applying when the caller operates on their own account.
func (s *Server) requireUserAccess(w http.ResponseWriter, r *http.Request, username string, resource models.ResourceType, action models.Action) (*auth.Principal, bool) {
	principal, _ := auth.PrincipalFrom(r.Context())
	level := models.FullAccess
	if principal != nil && principal.Username == username {
		level = models.LimitedAccess
	}
	return s.requirePermission(w, r, resource, action, level)
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request, username string) {
	if _, ok := s.requireUserAccess(w, r, username, models.ResourceUser, models.ActionView); !ok {
		return
	}

	user, err := s.app.Storage.Users().GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	WriteJSON(w, http.StatusOK, user.Sanitized())
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request, username string) {
	if _, ok := s.requireUserAccess(w, r, username, models.ResourceUserProfile, models.ActionModify); !ok {
		return
	}

	var req struct {
		Email   *string         `json:"email"`
		Profile *models.Profile `json:"profile"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Storage.Users().GetByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Profile != nil {
		user.Profile = *req.Profile
	}
	if err := s.app.Storage.Users().Update(r.Context(), user); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	WriteJSON(w, http.StatusOK, user.Sanitized())
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request, username string) {
	if _, ok := s.requireUserAccess(w, r, username, models.ResourceUser, models.ActionDelete); !ok {
		return
	}

	if err := s.app.Storage.Users().Delete(r.Context(), username); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	s.logger.Info().Str("username", username).Msg("User deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleUserMembership handles PUT /api/users/{username}/membership,
// which reassigns a user's role. Full user modify access is required
// regardless of whose account it is.
func (s *Server) handleUserMembership(w http.ResponseWriter, r *http.Request, username string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	if _, ok := s.requirePermission(w, r, models.ResourceUser, models.ActionModify, models.FullAccess); !ok {
		return
	}

	var req struct {
		Membership string `json:"membership"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if _, err := s.app.Storage.Memberships().Get(r.Context(), req.Membership); err != nil {
		WriteError(w, http.StatusBadRequest, "Unknown membership")
		return
	}

	user, err := s.app.Storage.Users().GetByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	user.Membership = req.Membership
	if err := s.app.Storage.Users().Update(r.Context(), user); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	s.logger.Info().
		Str("username", username).
		Str("membership", req.Membership).
		Msg("User membership changed")
	WriteJSON(w, http.StatusOK, user.Sanitized())
}

// handleMemberships handles GET /api/memberships and PUT
// /api/memberships for role administration.
func (s *Server) handleMemberships(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := s.requirePermission(w, r, models.ResourceUser, models.ActionView, models.LimitedAccess); !ok {
			return
		}
		memberships, err := s.app.Storage.Memberships().List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list memberships")
			return
		}
		WriteJSON(w, http.StatusOK, memberships)

	case http.MethodPut:
		if _, ok := s.requirePermission(w, r, models.ResourceUser, models.ActionModify, models.FullAccess); !ok {
			return
		}
		var req struct {
			Name string                                    `json:"name"`
			Grid map[models.ResourceType]models.ActionGrid `json:"grid"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		membership, err := models.NewMembership(req.Name, req.Grid)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.app.Storage.Memberships().Upsert(r.Context(), membership); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save membership")
			return
		}
		WriteJSON(w, http.StatusOK, membership)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}
