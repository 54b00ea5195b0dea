package domain

import "time"

// Profile is the Google account profile returned by the userinfo endpoint.
type Profile struct {
	// ID is the stable Google account identifier.
	ID string `json:"id"`
	// Email is the account's primary address.
	Email string `json:"email"`
	// Name is the display name.
	Name string `json:"name"`
	// Picture is the avatar URL.
	Picture string `json:"picture"`
}

// Credential is a Google access token together with the profile it was
// validated against. Token and profile are always stored and cleared as a pair.
type Credential struct {
	// AccessToken is the opaque bearer token.
	AccessToken string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Scope is the space separated list of granted scopes.
	Scope string `json:"scope,omitempty"`
	// Expiry is the provider's declared expiry hint. Zero if unknown.
	Expiry time.Time `json:"expiry,omitempty"`
	// Profile is the account the token belongs to.
	Profile Profile `json:"profile"`
	// UpdatedAt is when the pair was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired returns true if the expiry hint has passed.
// A zero expiry is treated as unknown and never expired.
func (c *Credential) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsComplete returns true if both halves of the pair are present.
func (c *Credential) IsComplete() bool {
	return c != nil && c.AccessToken != "" && c.Profile.ID != ""
}
