package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Error kinds surfaced to the UI layer.

	// ErrConfiguration indicates a missing client identifier or API key.
	// Fatal to the affected feature only.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport indicates a script, network or listener failure.
	// The user may retry by re-invoking the action.
	ErrTransport = errors.New("transport error")

	// ErrProtocol indicates the provider returned an explicit error.
	ErrProtocol = errors.New("protocol error")

	// ErrValidation indicates a callback failed local validation.
	ErrValidation = errors.New("validation error")

	// Session errors.

	// ErrInvalidState indicates the CSRF state did not match the stashed one.
	ErrInvalidState = errors.New("invalid state")

	// ErrTokenInvalid indicates the profile endpoint rejected a bearer token.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrNotInitialized indicates the session has not finished revalidation.
	ErrNotInitialized = errors.New("google authentication not initialized")

	// ErrNotConnected indicates no credential is available.
	ErrNotConnected = errors.New("not connected")

	// ErrNotReady indicates a lazily loaded dependency is not ready yet.
	ErrNotReady = errors.New("not ready")
)

// OperationError is the status + message pair reported for a failed operation.
// It unwraps to its Kind so callers can use errors.Is against the kinds above.
type OperationError struct {
	// Kind is one of ErrConfiguration, ErrTransport, ErrProtocol or ErrValidation.
	Kind error
	// Message is the user-facing text.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// NewOperationError creates an OperationError.
func NewOperationError(kind error, message string, cause error) *OperationError {
	return &OperationError{Kind: kind, Message: message, Err: cause}
}

// Error implements error.
func (e *OperationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause.
func (e *OperationError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// UserMessage returns the message to show for err.
// OperationErrors report their Message; anything else its Error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}
