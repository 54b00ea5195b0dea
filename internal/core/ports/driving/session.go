package driving

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// SessionService is the Google session: one instance per running application.
type SessionService interface {
	// Init revalidates any stored credential. It runs once; later calls
	// return the first outcome.
	Init(ctx context.Context) error

	// Connect opens the consent popup. The outcome is published as status.
	Connect(ctx context.Context) error

	// Accept validates a token obtained by any grant transport against the
	// profile endpoint and stores it. It never checks CSRF state.
	Accept(ctx context.Context, result domain.GrantResult) (*domain.Profile, error)

	// Disconnect revokes (best effort) and clears the credential. Idempotent.
	Disconnect(ctx context.Context) error

	// Status returns the current snapshot.
	Status() domain.SessionStatus

	// AccessToken returns the validated token, or "" when none is held.
	AccessToken() string

	// Subscribe registers fn for every status change and returns a function
	// that removes it.
	Subscribe(fn func(domain.SessionStatus)) (unsubscribe func())

	// Close releases the session.
	Close() error
}
