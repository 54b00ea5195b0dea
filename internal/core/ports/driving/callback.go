package driving

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// CallbackResult is what the client-side handler page displays.
type CallbackResult struct {
	// Profile is the verified account.
	Profile *domain.Profile
	// Message is the text to show.
	Message string
	// RedirectURL is where the page navigates after RedirectDelay milliseconds.
	RedirectURL string
	// RedirectDelayMillis is the fixed display delay before navigating.
	RedirectDelayMillis int
}

// CallbackService drives the redirect-based (implicit flow) grant.
type CallbackService interface {
	// Begin issues and stashes a CSRF state and returns the authorization URL.
	Begin(ctx context.Context) (string, error)

	// Complete validates the URL fragment delivered to the handler page and
	// stores the token on success.
	Complete(ctx context.Context, fragment string) (*CallbackResult, error)

	// ErrorRedirect returns where a provider-reported error is forwarded.
	ErrorRedirect(providerError string) string

	// HandlerRedirect returns the client-side handler URL for a raw query.
	HandlerRedirect(rawQuery string) string
}

// Redirect flow routes served by the HTTP adapter.
const (
	// StartPath begins a redirect-based grant.
	StartPath = "/auth/google/start"
	// ProviderCallbackPath is the redirect URI registered with the provider.
	ProviderCallbackPath = "/api/auth/google/callback"
	// HandlerPath is the client-side page that reads the fragment.
	HandlerPath = "/auth/google/callback"
	// CompletePath receives the fragment posted by the handler page.
	CompletePath = "/auth/google/callback/complete"
)
