package domain

// ConnectionState is the Google connection state published to the UI layer.
type ConnectionState string

// Connection states. Exactly one holds at any time.
const (
	// StateUninitialized means no credential is active.
	StateUninitialized ConnectionState = "uninitialized"

	// StateLoading means a grant or revalidation is in flight.
	StateLoading ConnectionState = "loading"

	// StateConnected means a validated credential is active.
	StateConnected ConnectionState = "connected"

	// StateError means the last operation failed; see SessionStatus.Message.
	StateError ConnectionState = "error"
)

// IsValid returns true if the state is recognised.
func (s ConnectionState) IsValid() bool {
	switch s {
	case StateUninitialized, StateLoading, StateConnected, StateError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ConnectionState) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s ConnectionState) Description() string {
	switch s {
	case StateUninitialized:
		return "Not connected"
	case StateLoading:
		return "Connecting..."
	case StateConnected:
		return "Connected"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// SessionStatus is a snapshot of the Google session.
type SessionStatus struct {
	// State is the connection state.
	State ConnectionState `json:"state"`
	// Message is the error text when State is StateError.
	Message string `json:"message,omitempty"`
	// Initialized is true once revalidation has completed.
	Initialized bool `json:"initialized"`
	// Profile is the connected account. Nil unless State is StateConnected.
	Profile *Profile `json:"profile,omitempty"`
}

// IsConnected returns true if a validated credential is active.
func (s SessionStatus) IsConnected() bool {
	return s.State == StateConnected && s.Profile != nil
}

// IsLoading returns true while a grant or revalidation is in flight.
func (s SessionStatus) IsLoading() bool {
	return s.State == StateLoading || !s.Initialized
}

// CanConnect returns true if the connect action may be offered.
// Connect is only actionable once revalidation has finished.
func (s SessionStatus) CanConnect() bool {
	return s.Initialized && s.State != StateLoading
}
