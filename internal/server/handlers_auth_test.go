package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginReturnsTokens(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"username": "admin",
		"password": "admin-password",
	})
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Token            string `json:"token"`
		FirstPartyAccess string `json:"first_party_access"`
		Version          string `json:"version"`
		User             struct {
			Username     string `json:"username"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.FirstPartyAccess)
	assert.Equal(t, "1.0", resp.Version)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	requireStatus(t, rec, http.StatusUnauthorized)

	rec = doRequest(t, s, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"username": "ghost",
		"password": "whatever",
	})
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestLoginRequiresBothFields(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"username": "admin",
	})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestValidateToken(t *testing.T) {
	s, _ := newTestServer(t)

	token := s.app.Authentication.Issue("member")
	require.NotEmpty(t, token)

	rec := doRequest(t, s, http.MethodPost, "/api/auth/validate", nil, map[string]string{"token": token})
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Valid    bool   `json:"valid"`
		Expired  bool   `json:"expired"`
		Username string `json:"username"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Valid)
	assert.False(t, resp.Expired)
	assert.Equal(t, "member", resp.Username)

	rec = doRequest(t, s, http.MethodPost, "/api/auth/validate", nil, map[string]string{"token": "garbage"})
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Valid)
}

func TestSandboxRequiresAuthentication(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sandbox", nil, nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestSandboxWithFirstPartyAccess(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/sandbox", userHeaders(t, s, "member"), nil)
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Username   string `json:"username"`
		FirstParty bool   `json:"first_party"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "member", resp.Username)
	assert.True(t, resp.FirstParty)
}

func TestSandboxDeniedWithoutActingManner(t *testing.T) {
	s, _ := newTestServer(t)

	// authenticated but neither first-party nor a client bearer
	headers := map[string]string{
		AuthenticationHeader: s.app.Authentication.Issue("member"),
	}
	rec := doRequest(t, s, http.MethodGet, "/api/sandbox", headers, nil)
	requireStatus(t, rec, http.StatusForbidden)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/health", nil, nil)
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
}

func TestVersionEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/version", nil, nil)
	requireStatus(t, rec, http.StatusOK)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp, "version")
}
