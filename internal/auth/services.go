package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// AuthenticationVersion tags the authentication token format so clients
// can detect incompatible upgrades.
const AuthenticationVersion = "1.0"

// AuthenticationService signs user authentication tokens and checks
// login credentials against the user store.
type AuthenticationService struct {
	tokens      *TokenService
	users       interfaces.UserStore
	memberships interfaces.MembershipStore
	logger      *common.Logger
}

func NewAuthenticationService(creds common.TokenCredentials, users interfaces.UserStore, memberships interfaces.MembershipStore, logger *common.Logger) *AuthenticationService {
	return &AuthenticationService{
		tokens:      NewTokenService(creds, logger),
		users:       users,
		memberships: memberships,
		logger:      logger,
	}
}

// Login checks a username and password and issues an authentication
// token on success. A missing user and a wrong password are
// indistinguishable to the caller.
func (s *AuthenticationService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := s.Issue(username)
	if token == "" {
		return "", nil, ErrServerError
	}

	s.logger.Info().Str("username", username).Msg("User logged in")
	return token, user, nil
}

// Issue signs an authentication token for a username.
func (s *AuthenticationService) Issue(username string) string {
	return s.tokens.Encode(&AuthenticationClaims{Username: username})
}

// Verify reports whether an authentication token is currently valid.
func (s *AuthenticationService) Verify(token string) bool {
	return s.tokens.Verify(token)
}

// Decode parses an authentication token into its claims.
func (s *AuthenticationService) Decode(token string) (*AuthenticationClaims, DecodeResult) {
	var claims AuthenticationClaims
	result := s.tokens.Decode(token, &claims)
	return &claims, result
}

// ResolveUser turns an authentication token into the stored user and
// their membership. Users without a resolvable membership fall back to
// the default role.
func (s *AuthenticationService) ResolveUser(ctx context.Context, token string) (*models.User, *models.Membership, error) {
	claims, result := s.Decode(token)
	if !result.Decoded {
		return nil, nil, ErrAuthenticationRequired
	}

	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, nil, ErrAuthenticationRequired
	}

	membership, err := s.memberships.Get(ctx, user.Membership)
	if err != nil {
		membership = models.DefaultMembership()
	}
	return user, membership, nil
}

// HashPassword derives the stored form of a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// FirstPartyService signs the short-lived tokens that mark traffic from
// the platform's own front ends.
type FirstPartyService struct {
	tokens *TokenService
}

func NewFirstPartyService(creds common.TokenCredentials, logger *common.Logger) *FirstPartyService {
	return &FirstPartyService{tokens: NewTokenService(creds, logger)}
}

// Issue signs a first-party access token.
func (s *FirstPartyService) Issue() string {
	return s.tokens.Encode(&FirstPartyClaims{})
}

// Verify reports whether a first-party token is currently valid.
func (s *FirstPartyService) Verify(token string) bool {
	return s.tokens.Verify(token)
}
