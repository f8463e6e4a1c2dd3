package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/models"
)

// Claims is implemented by every token payload the service can issue.
// The service injects the registered claim set and a fresh nonce at
// encode time; each payload decides where the nonce lands.
type Claims interface {
	jwt.Claims
	register(rc jwt.RegisteredClaims)
	applyNonce(nonce string)
}

// AuthenticationClaims is the payload of a user authentication token.
type AuthenticationClaims struct {
	Username string `json:"username"`
	State    string `json:"state"`
	jwt.RegisteredClaims
}

func (c *AuthenticationClaims) register(rc jwt.RegisteredClaims) { c.RegisteredClaims = rc }
func (c *AuthenticationClaims) applyNonce(nonce string)          { c.State = nonce }

// FirstPartyClaims is the payload of a first-party access token. Holders
// bypass scope checks on the access decision.
type FirstPartyClaims struct {
	Issued int64  `json:"issuedAt"`
	State  string `json:"state"`
	jwt.RegisteredClaims
}

func (c *FirstPartyClaims) register(rc jwt.RegisteredClaims) {
	c.RegisteredClaims = rc
	if rc.IssuedAt != nil {
		c.Issued = rc.IssuedAt.UnixMilli()
	}
}
func (c *FirstPartyClaims) applyNonce(nonce string) { c.State = nonce }

// ClientTokenClaims is the payload of the short-lived token handed to an
// OAuth2 client after the resource owner approves an authorization.
type ClientTokenClaims struct {
	ClientID string `json:"clientId"`
	Username string `json:"username"`
	Scope    string `json:"scope"`
	State    string `json:"state"`
	jwt.RegisteredClaims
}

func (c *ClientTokenClaims) register(rc jwt.RegisteredClaims) { c.RegisteredClaims = rc }
func (c *ClientTokenClaims) applyNonce(nonce string)          { c.State = nonce }

// ClientDescriptor is the client block embedded verbatim in access and
// refresh tokens. Secret is included so a refresh exchange can rebuild
// an access token without a registry lookup.
type ClientDescriptor struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Secret      string              `json:"secret"`
	Permissions []models.Permission `json:"permissions"`
}

// AccessTokenClaims is the payload of an OAuth2 access token. It carries
// no nonce: two access tokens for the same client block are equivalent.
type AccessTokenClaims struct {
	Client ClientDescriptor `json:"client"`
	jwt.RegisteredClaims
}

func (c *AccessTokenClaims) register(rc jwt.RegisteredClaims) { c.RegisteredClaims = rc }
func (c *AccessTokenClaims) applyNonce(string)                {}

// RefreshTokenClaims is the payload of an OAuth2 refresh token. The seed
// makes every refresh token unique even for an identical client block.
type RefreshTokenClaims struct {
	Client      ClientDescriptor `json:"client"`
	RefreshSeed string           `json:"refreshSeed"`
	jwt.RegisteredClaims
}

func (c *RefreshTokenClaims) register(rc jwt.RegisteredClaims) { c.RegisteredClaims = rc }
func (c *RefreshTokenClaims) applyNonce(nonce string)          { c.RefreshSeed = nonce }

// DecodeResult reports the outcome of decoding a token. Decoded and
// Expired are mutually exclusive; both false means the token is invalid.
type DecodeResult struct {
	Decoded bool
	Expired bool
}

// TokenService signs and verifies one kind of token using a fixed
// credential set. Each token kind gets its own service instance so
// secrets, expiries, and registered claims never cross kinds.
type TokenService struct {
	creds  common.TokenCredentials
	method jwt.SigningMethod
	logger *common.Logger
}

// NewTokenService builds a service from credentials. An unknown
// algorithm leaves the service in a state where Encode returns the
// empty string and Decode rejects everything.
func NewTokenService(creds common.TokenCredentials, logger *common.Logger) *TokenService {
	return &TokenService{
		creds:  creds,
		method: jwt.GetSigningMethod(creds.Algorithm),
		logger: logger,
	}
}

// Encode signs the claims and returns the compact token. Failures are
// logged and collapse to the empty string; callers treat "" as the
// could-not-issue marker.
func (s *TokenService) Encode(claims Claims) string {
	if s.method == nil || s.creds.Secret == "" {
		s.logger.Error().
			Str("algorithm", s.creds.Algorithm).
			Msg("Token encode failed: signing method or secret not configured")
		return ""
	}

	now := time.Now()
	claims.register(jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.creds.Issuer,
		Subject:   s.creds.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.creds.GetExpiry())),
	})
	claims.applyNonce(uuid.NewString())

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.creds.Secret))
	if err != nil {
		s.logger.Error().Err(err).Msg("Token encode failed: signing error")
		return ""
	}
	return signed
}

// Decode parses and verifies a token into claims. An expired but
// otherwise valid token reports Expired without populating claims
// guarantees; any other failure reports neither flag.
func (s *TokenService) Decode(tokenString string, claims Claims) DecodeResult {
	if s.method == nil || tokenString == "" {
		return DecodeResult{}
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return DecodeResult{Expired: true}
		}
		s.logger.Warn().Err(err).Msg("Token decode failed")
		return DecodeResult{}
	}
	return DecodeResult{Decoded: true}
}

// Verify reports whether a token is currently valid, without exposing
// its payload. It enforces the same algorithm, issuer, and subject
// constraints as Decode.
func (s *TokenService) Verify(tokenString string) bool {
	if s.method == nil || tokenString == "" {
		return false
	}
	_, err := jwt.Parse(tokenString, s.keyFunc, s.parserOptions()...)
	return err == nil
}

func (s *TokenService) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{s.method.Alg()})}
	if s.creds.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.creds.Issuer))
	}
	if s.creds.Subject != "" {
		opts = append(opts, jwt.WithSubject(s.creds.Subject))
	}
	return opts
}

func (s *TokenService) keyFunc(*jwt.Token) (interface{}, error) {
	return []byte(s.creds.Secret), nil
}
