package driven

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// CredentialStore persists the Google credential.
// Token and profile are one logical pair: Save replaces both, Clear removes both,
// and Load never returns one without the other.
type CredentialStore interface {
	// Load returns the stored credential, or domain.ErrNotFound if none is stored.
	Load(ctx context.Context) (*domain.Credential, error)

	// Save replaces the stored credential as a single write.
	Save(ctx context.Context, cred domain.Credential) error

	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
