// Package auth implements the Digest authorization core: the scope codec,
// token issuance and verification, the OAuth2 grant flows, and the access
// control decision applied to every protected request.
package auth

import "errors"

var (
	// ErrAuthenticationRequired signals that no authenticated user is
	// attached to the request.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNoPermission signals that the caller is authenticated but lacks
	// the required access level.
	ErrNoPermission = errors.New("no permission")

	// ErrUnauthorizedClient signals a failed client credential check.
	ErrUnauthorizedClient = errors.New("unauthorized client")

	// ErrClientNotFound signals that the referenced client is not registered.
	ErrClientNotFound = errors.New("client not found")

	ErrAccessDenied = errors.New("access denied")
	ErrServerError  = errors.New("server error")

	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrAccessTokenExpired  = errors.New("access token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrInvalidCredentials signals a failed username or password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
