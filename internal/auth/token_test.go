package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/models"
)

func testCredentials(expiry string) common.TokenCredentials {
	return common.TokenCredentials{
		Secret:    "test-secret-for-signing",
		Algorithm: "HS256",
		Issuer:    "digest-server",
		Subject:   "test",
		Expiry:    expiry,
	}
}

func newTestTokenService(expiry string) *TokenService {
	return NewTokenService(testCredentials(expiry), common.NewSilentLogger())
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService("5m")

	token := svc.Encode(&AuthenticationClaims{Username: "alice"})
	require.NotEmpty(t, token)

	var decoded AuthenticationClaims
	result := svc.Decode(token, &decoded)
	assert.True(t, result.Decoded)
	assert.False(t, result.Expired)
	assert.Equal(t, "alice", decoded.Username)
	assert.NotEmpty(t, decoded.State)
	assert.Equal(t, "digest-server", decoded.Issuer)
}

func TestTokenNoncesDiffer(t *testing.T) {
	svc := newTestTokenService("5m")

	first := svc.Encode(&AuthenticationClaims{Username: "alice"})
	second := svc.Encode(&AuthenticationClaims{Username: "alice"})
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestExpiredTokenReportsExpired(t *testing.T) {
	svc := newTestTokenService("-1m")

	token := svc.Encode(&AuthenticationClaims{Username: "alice"})
	require.NotEmpty(t, token)

	var decoded AuthenticationClaims
	result := svc.Decode(token, &decoded)
	assert.False(t, result.Decoded)
	assert.True(t, result.Expired)
	assert.False(t, svc.Verify(token))
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := newTestTokenService("5m")

	token := svc.Encode(&AuthenticationClaims{Username: "alice"})
	require.NotEmpty(t, token)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	var decoded AuthenticationClaims
	result := svc.Decode(tampered, &decoded)
	assert.False(t, result.Decoded)
	assert.False(t, result.Expired)
}

func TestWrongSecretRejected(t *testing.T) {
	svc := newTestTokenService("5m")
	token := svc.Encode(&AuthenticationClaims{Username: "alice"})
	require.NotEmpty(t, token)

	other := testCredentials("5m")
	other.Secret = "a-different-secret"
	otherSvc := NewTokenService(other, common.NewSilentLogger())

	var decoded AuthenticationClaims
	result := otherSvc.Decode(token, &decoded)
	assert.False(t, result.Decoded)
	assert.False(t, svc.Verify(""))
}

func TestVerifyRejectsWrongIssuerAndSubject(t *testing.T) {
	other := testCredentials("5m")
	other.Issuer = "another-issuer"
	other.Subject = "another-subject"
	otherSvc := NewTokenService(other, common.NewSilentLogger())

	// same secret and algorithm, wrong issuer and subject
	token := otherSvc.Encode(&FirstPartyClaims{})
	require.NotEmpty(t, token)

	svc := newTestTokenService("5m")
	assert.False(t, svc.Verify(token))

	var decoded FirstPartyClaims
	result := svc.Decode(token, &decoded)
	assert.False(t, result.Decoded)
	assert.False(t, result.Expired)

	assert.True(t, otherSvc.Verify(token))
}

func TestEncodeWithoutSecretReturnsEmpty(t *testing.T) {
	creds := testCredentials("5m")
	creds.Secret = ""
	svc := NewTokenService(creds, common.NewSilentLogger())

	assert.Empty(t, svc.Encode(&AuthenticationClaims{Username: "alice"}))
}

func TestEncodeWithUnknownAlgorithmReturnsEmpty(t *testing.T) {
	creds := testCredentials("5m")
	creds.Algorithm = "XS999"
	svc := NewTokenService(creds, common.NewSilentLogger())

	assert.Empty(t, svc.Encode(&AuthenticationClaims{Username: "alice"}))
}

func TestAccessTokenCarriesClientBlockWithoutNonce(t *testing.T) {
	svc := newTestTokenService("5m")

	claims := &AccessTokenClaims{Client: ClientDescriptor{
		ID:     "client-1",
		Name:   "Reader",
		Secret: "client-secret",
		Permissions: []models.Permission{
			{Resource: models.ResourceCourse, Action: models.ActionView, Level: models.FullAccess},
		},
	}}
	token := svc.Encode(claims)
	require.NotEmpty(t, token)

	var decoded AccessTokenClaims
	result := svc.Decode(token, &decoded)
	require.True(t, result.Decoded)
	assert.Equal(t, claims.Client, decoded.Client)
}

func TestRefreshTokenCarriesSeed(t *testing.T) {
	svc := newTestTokenService("5m")

	token := svc.Encode(&RefreshTokenClaims{Client: ClientDescriptor{ID: "client-1"}})
	require.NotEmpty(t, token)

	var decoded RefreshTokenClaims
	result := svc.Decode(token, &decoded)
	require.True(t, result.Decoded)
	assert.NotEmpty(t, decoded.RefreshSeed)
	assert.Equal(t, "client-1", decoded.Client.ID)
}
