package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digestcode/digest/internal/app"
	"github.com/digestcode/digest/internal/auth"
	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/models"
)

// newTestServer builds a server against in-memory storage with an admin
// and a default-membership member seeded.
func newTestServer(t *testing.T) (*Server, *mockStorage) {
	t.Helper()

	storage := newMockStorage()
	config := common.NewDefaultConfig()
	logger := common.NewSilentLogger()

	a, err := app.NewWithStorage(config, logger, storage)
	require.NoError(t, err)

	seedUser(t, storage, "admin", "admin-password", "admin")
	seedUser(t, storage, "member", "member-password", "default")

	return NewServer(a), storage
}

func seedUser(t *testing.T, storage *mockStorage, username, password, membership string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, storage.users.Create(context.Background(), &models.User{
		Username:     username,
		PasswordHash: hash,
		Membership:   membership,
	}))
}

// userHeaders returns the headers a first-party front end sends for a
// logged-in user.
func userHeaders(t *testing.T, s *Server, username string) map[string]string {
	t.Helper()
	token := s.app.Authentication.Issue(username)
	require.NotEmpty(t, token)
	firstParty := s.app.FirstParty.Issue()
	require.NotEmpty(t, firstParty)
	return map[string]string{
		AuthenticationHeader: token,
		FirstPartyHeader:     firstParty,
	}
}

func doRequest(t *testing.T, s *Server, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if _, isForm := body.(url.Values); isForm {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
