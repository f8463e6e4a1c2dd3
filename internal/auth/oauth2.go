package auth

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// PendingAuthorization is an authorization request waiting on the
// resource owner's decision. Nothing is granted until the owner decides;
// an abandoned transaction simply never resolves.
type PendingAuthorization struct {
	TransactionID string    `json:"transaction_id"`
	ClientID      string    `json:"client_id"`
	ClientName    string    `json:"client_name"`
	Username      string    `json:"username"`
	Scope         string    `json:"scope"`
	RedirectURI   string    `json:"redirect_uri,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenPair is the result of a successful token exchange. RefreshToken
// may be empty after a refresh exchange when rotation failed; every
// other path issues both tokens or neither.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// OAuth2Service drives the authorization grant and the two token
// exchanges. Pending authorizations live in memory; they are cheap to
// recreate and carry no state worth persisting.
type OAuth2Service struct {
	clients      interfaces.ClientStore
	clientToken  *TokenService
	accessToken  *TokenService
	refreshToken *TokenService
	accessExpiry time.Duration
	logger       *common.Logger

	mu      sync.Mutex
	pending map[string]*PendingAuthorization
}

// NewOAuth2Service wires the grant machinery against a client registry
// and the per-kind token credentials.
func NewOAuth2Service(clients interfaces.ClientStore, cfg common.OAuth2Config, logger *common.Logger) *OAuth2Service {
	return &OAuth2Service{
		clients:      clients,
		clientToken:  NewTokenService(cfg.ClientToken, logger),
		accessToken:  NewTokenService(cfg.AccessToken, logger),
		refreshToken: NewTokenService(cfg.RefreshToken, logger),
		accessExpiry: cfg.AccessToken.GetExpiry(),
		logger:       logger,
		pending:      make(map[string]*PendingAuthorization),
	}
}

// Authorize opens an authorization transaction for an authenticated user.
// It validates the client and records the request, but grants nothing;
// the caller must present the transaction to the user for a decision.
func (s *OAuth2Service) Authorize(ctx context.Context, clientID, redirectURI, scope, username string) (*PendingAuthorization, error) {
	if username == "" {
		return nil, ErrAuthenticationRequired
	}

	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	tx := &PendingAuthorization{
		TransactionID: uuid.NewString(),
		ClientID:      client.ID,
		ClientName:    client.Name,
		Username:      username,
		Scope:         scope,
		RedirectURI:   redirectURI,
		CreatedAt:     time.Now(),
	}

	s.mu.Lock()
	s.pending[tx.TransactionID] = tx
	s.mu.Unlock()

	s.logger.Info().
		Str("client_id", client.ID).
		Str("username", username).
		Msg("Authorization transaction opened")
	return tx, nil
}

// Decide resolves a pending authorization. Only the user who opened the
// transaction may resolve it; anyone else is denied and the transaction
// stays pending. Approval issues the client token; denial or an unknown
// transaction grants nothing. A resolved transaction is consumed.
func (s *OAuth2Service) Decide(ctx context.Context, transactionID, username string, approved bool) (string, error) {
	s.mu.Lock()
	tx, ok := s.pending[transactionID]
	if ok && tx.Username == username {
		delete(s.pending, transactionID)
	} else {
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return "", ErrAccessDenied
	}
	if !approved {
		s.logger.Info().
			Str("client_id", tx.ClientID).
			Str("username", tx.Username).
			Msg("Authorization denied by user")
		return "", ErrAccessDenied
	}

	// the client may have been deleted or expired since Authorize
	client, err := s.DeserializeClient(ctx, tx.ClientID)
	if err != nil {
		return "", err
	}

	token := s.clientToken.Encode(&ClientTokenClaims{
		ClientID: client.ID,
		Username: tx.Username,
		Scope:    tx.Scope,
	})
	if token == "" {
		return "", ErrServerError
	}
	return token, nil
}

// ExchangeClientCredentials swaps the client's own credentials plus a
// requested scope for an access and refresh token pair. The exchange is
// atomic: if either token cannot be issued, neither is.
func (s *OAuth2Service) ExchangeClientCredentials(ctx context.Context, clientID, clientSecret, scope string) (*TokenPair, error) {
	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	descriptor := ClientDescriptor{
		ID:          client.ID,
		Name:        client.Name,
		Secret:      client.Secret,
		Permissions: DecodeScopes(scope),
	}

	access := s.accessToken.Encode(&AccessTokenClaims{Client: descriptor})
	refresh := s.refreshToken.Encode(&RefreshTokenClaims{Client: descriptor})
	if access == "" || refresh == "" {
		return nil, ErrServerError
	}

	s.logger.Info().
		Str("client_id", client.ID).
		Str("scope", scope).
		Msg("Client credentials exchanged for token pair")
	return s.pair(access, refresh), nil
}

// ExchangeRefreshToken issues a fresh access token from a refresh token.
// The embedded client block is reused verbatim, so permissions captured
// at grant time survive unchanged. Rotation of the refresh token itself
// is best effort: if the new refresh token cannot be signed, the access
// token is still returned alone.
func (s *OAuth2Service) ExchangeRefreshToken(ctx context.Context, clientID, clientSecret, refreshTokenString string) (*TokenPair, error) {
	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	var claims RefreshTokenClaims
	result := s.refreshToken.Decode(refreshTokenString, &claims)
	if !result.Decoded {
		if result.Expired {
			return nil, ErrRefreshTokenExpired
		}
		return nil, ErrInvalidRefreshToken
	}
	if claims.RefreshSeed == "" {
		return nil, ErrInvalidRefreshToken
	}
	if claims.Client.ID != client.ID {
		return nil, ErrUnauthorizedClient
	}

	access := s.accessToken.Encode(&AccessTokenClaims{Client: claims.Client})
	if access == "" {
		return nil, ErrServerError
	}

	refresh := s.refreshToken.Encode(&RefreshTokenClaims{Client: claims.Client})
	if refresh == "" {
		s.logger.Warn().
			Str("client_id", client.ID).
			Msg("Refresh token rotation failed, returning access token only")
	}
	return s.pair(access, refresh), nil
}

// ResolveAccessToken verifies a bearer access token and returns the
// client block it carries.
func (s *OAuth2Service) ResolveAccessToken(tokenString string) (*ClientDescriptor, error) {
	var claims AccessTokenClaims
	result := s.accessToken.Decode(tokenString, &claims)
	if !result.Decoded {
		if result.Expired {
			return nil, ErrAccessTokenExpired
		}
		return nil, ErrInvalidAccessToken
	}
	return &claims.Client, nil
}

// PendingCount reports the number of unresolved authorization
// transactions, for health reporting.
func (s *OAuth2Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *OAuth2Service) pair(access, refresh string) *TokenPair {
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}
}

func (s *OAuth2Service) lookupClient(ctx context.Context, clientID string) (*models.Client, error) {
	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return nil, ErrClientNotFound
	}
	if client.Expired(time.Now()) {
		return nil, ErrUnauthorizedClient
	}
	return client, nil
}

func (s *OAuth2Service) authenticateClient(ctx context.Context, clientID, clientSecret string) (*models.Client, error) {
	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(clientSecret)) != 1 {
		return nil, ErrUnauthorizedClient
	}
	return client, nil
}

// SerializeClient reduces a client to its stable identity; only the id
// is carried across a grant transaction.
func SerializeClient(c *models.Client) string {
	return c.ID
}

// DeserializeClient resolves a serialized client id back to the stored
// record. A missing client is a distinct condition from an invalid one.
func (s *OAuth2Service) DeserializeClient(ctx context.Context, id string) (*models.Client, error) {
	return s.lookupClient(ctx, id)
}
