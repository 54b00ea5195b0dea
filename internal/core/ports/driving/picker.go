package driving

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// PickerSession is an opened picker dialog awaiting a selection.
type PickerSession struct {
	// ID identifies the session in page and result URLs.
	ID string
	// Options are the normalized dialog options.
	Options domain.PickerOptions
	// AccessToken is the OAuth token the picker uses.
	AccessToken string
	// DeveloperKey is the API key the picker uses.
	DeveloperKey string
	// AppID is the optional Cloud project number.
	AppID string
	// ScriptURL is the picker bootstrap script.
	ScriptURL string
	// Done is closed once the session is picked or cancelled.
	Done <-chan struct{}
}

// PickerService exposes the file-selection dialog.
type PickerService interface {
	// Ready waits for the picker script to be available. The load happens
	// once and the result is shared by every caller.
	Ready(ctx context.Context) error

	// IsReady reports whether Ready has completed successfully.
	IsReady() bool

	// Open creates a dialog session. onPicked receives each selection batch.
	Open(ctx context.Context, opts domain.PickerOptions, onPicked func([]domain.PickedFile)) (*PickerSession, error)

	// Session returns an open session by ID.
	Session(id string) (*PickerSession, error)

	// Deliver hands the widget's response for a session to the service.
	Deliver(ctx context.Context, id string, resp domain.PickerResponse) error
}
