// Package domain defines the core entities for gconnector.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: A validated Google access token and its profile
//   - SessionStatus: The connection state published to the UI layer
//   - PickedFile: A file reference produced by the Drive picker
//   - PendingState: A single-use CSRF state for the redirect flow
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
