package domain

import "time"

// GrantResult is what a grant adapter delivers once the consent popup closes.
// Exactly one of AccessToken or Error is set.
type GrantResult struct {
	// AccessToken is the bearer token issued by the provider.
	AccessToken string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the declared token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
	// Scope is the space separated list of granted scopes.
	Scope string `json:"scope"`
	// State is the CSRF state echoed by the provider.
	State string `json:"state"`
	// Error is the provider's error code (e.g. "access_denied").
	Error string `json:"error"`
	// ErrorDescription is the provider's human readable error text.
	ErrorDescription string `json:"error_description"`
}

// Failed returns true if the provider reported an error instead of a token.
func (g GrantResult) Failed() bool {
	return g.Error != ""
}

// Message returns the most descriptive error text the provider gave.
func (g GrantResult) Message() string {
	if g.ErrorDescription != "" {
		return g.ErrorDescription
	}
	return g.Error
}

// Expiry converts ExpiresIn into an absolute expiry relative to now.
// Returns the zero time if no lifetime was declared.
func (g GrantResult) Expiry(now time.Time) time.Time {
	if g.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(g.ExpiresIn) * time.Second)
}

// PendingState represents a CSRF state issued before a redirect-based grant.
// States are single use and expire after a short period.
type PendingState struct {
	// State is the random opaque token round-tripped through the redirect.
	State string `json:"state"`
	// RedirectURI is the callback URL the provider will redirect to.
	RedirectURI string `json:"redirect_uri"`
	// CreatedAt is when the state was issued.
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is when the state stops being accepted.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the state can no longer be used.
func (s *PendingState) IsExpired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}
