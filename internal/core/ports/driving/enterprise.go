package driving

// EnterpriseGuard reports whether the organization-scoped identity provider
// is configured and supplies the parameters its token requests must carry.
type EnterpriseGuard interface {
	// Enabled returns true if the provider is configured.
	Enabled() bool

	// Reason explains why the provider is disabled. Empty when enabled.
	Reason() string

	// AuthorizationParams returns the organization, tenant and product
	// parameters for a token request. Nil when disabled.
	AuthorizationParams() map[string]string
}
