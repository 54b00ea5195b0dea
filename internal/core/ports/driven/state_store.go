package driven

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// StateStore manages CSRF states for the redirect flow. Several flows may be
// pending at once; each state is single use.
type StateStore interface {
	// Stash records a newly issued state next to any still pending.
	Stash(ctx context.Context, state domain.PendingState) error

	// Take atomically retrieves and deletes the state equal to value.
	// Returns nil, nil if no such state is pending or it has expired.
	Take(ctx context.Context, value string) (*domain.PendingState, error)
}
