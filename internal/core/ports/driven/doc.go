// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialStore: Token + profile persistence
//   - StateStore: Single-use CSRF state persistence
//   - GrantClient: The provider's consent popup and revocation
//   - ProfileClient: The provider's userinfo endpoint
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ScriptLoader: Picker script availability. Without it, the picker is never ready.
//   - FileResolver: Drive metadata lookups. Without it, picked files are delivered as reported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
