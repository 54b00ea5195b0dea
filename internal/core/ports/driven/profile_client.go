package driven

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// ProfileClient calls the provider's userinfo endpoint.
type ProfileClient interface {
	// FetchProfile returns the profile the bearer token belongs to.
	// Returns an error wrapping domain.ErrTokenInvalid on a non-2xx response
	// and domain.ErrTransport on network failure.
	FetchProfile(ctx context.Context, accessToken string) (*domain.Profile, error)
}
