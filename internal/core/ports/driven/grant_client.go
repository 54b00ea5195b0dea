package driven

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// GrantHandler receives the outcome of a consent popup.
type GrantHandler func(ctx context.Context, result domain.GrantResult)

// GrantRequest describes a popup grant.
type GrantRequest struct {
	// ClientID is the OAuth client identifier.
	ClientID string
	// Scopes are the requested scopes.
	Scopes []string
	// ForceConsent asks the provider to show the consent screen again.
	ForceConsent bool
}

// GrantClient isolates the provider's callback-style token client.
// It is the only code aware of how the popup is opened and how its result
// arrives; the rest of the flow sees RequestGrant, OnGrantResult and Revoke.
type GrantClient interface {
	// Prepare readies the client. A failure means the service is unavailable.
	Prepare(ctx context.Context) error

	// RequestGrant opens the consent popup and returns without waiting for it.
	// The outcome is delivered to the handler registered with OnGrantResult.
	RequestGrant(ctx context.Context, req GrantRequest) error

	// OnGrantResult registers the handler for popup outcomes.
	OnGrantResult(handler GrantHandler)

	// Revoke invalidates a token at the provider.
	Revoke(ctx context.Context, token string) error
}

// AuthURLBuilder builds provider authorization URLs for the redirect flow.
type AuthURLBuilder interface {
	// ImplicitGrantURL returns a URL that delivers the token in the redirect
	// fragment (response_type=token).
	ImplicitGrantURL(req GrantRequest, redirectURI, state string) string
}
