package auth

import (
	"context"

	"github.com/digestcode/digest/internal/models"
)

// Principal is the authenticated identity attached to a request. Exactly
// one of FirstParty or Client describes how the caller is acting: first
// party callers bypass scope narrowing, third party callers act through
// the permissions their client token carries.
type Principal struct {
	Username   string
	Membership *models.Membership
	FirstParty bool
	Client     *ClientDescriptor
}

type principalKey struct{}

// WithPrincipal attaches a resolved principal to the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal from a request context, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// Decide applies the access control decision for one protected operation.
// The checks run in a fixed order: an unauthenticated caller fails
// before any permission question is asked, the user's membership acts as
// a ceiling no client grant can exceed, and only after the ceiling holds
// does the first-party bypass or the client scope matter.
func Decide(p *Principal, resource models.ResourceType, action models.Action, required models.AccessLevel) error {
	if p == nil || p.Username == "" {
		return ErrAuthenticationRequired
	}

	if p.Membership.Level(resource, action).LT(required) {
		return ErrNoPermission
	}

	if p.FirstParty {
		return nil
	}

	if p.Client != nil {
		for _, grant := range p.Client.Permissions {
			if grant.Resource == resource && grant.Action == action && grant.Level.GE(required) {
				return nil
			}
		}
	}
	return ErrNoPermission
}
