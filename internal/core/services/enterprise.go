package services

import (
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Ensure EnterpriseGuard implements the interface.
var _ driving.EnterpriseGuard = (*EnterpriseGuard)(nil)

const productCodePrefix = "mkp_"

// EnterpriseGuard decides whether the organization-scoped identity provider is
// active. Missing domain or client id disables it with a warning; it never
// aborts the process.
type EnterpriseGuard struct {
	settings    domain.EnterpriseSettings
	redirectURI string
	reason      string
}

// NewEnterpriseGuard evaluates the settings once.
func NewEnterpriseGuard(settings domain.EnterpriseSettings, redirectURI string) *EnterpriseGuard {
	g := &EnterpriseGuard{
		settings:    settings,
		redirectURI: redirectURI,
	}

	if !settings.IsConfigured() {
		g.reason = "enterprise domain and client ID are not configured; enterprise features are disabled"
		logger.Warn("%s", g.reason)
	}

	return g
}

// Enabled returns true if the provider is configured.
func (g *EnterpriseGuard) Enabled() bool {
	return g.reason == ""
}

// Reason explains why the provider is disabled.
func (g *EnterpriseGuard) Reason() string {
	return g.reason
}

// AuthorizationParams returns the parameters every token request must carry.
// Empty values are omitted.
func (g *EnterpriseGuard) AuthorizationParams() map[string]string {
	if !g.Enabled() {
		return nil
	}

	params := map[string]string{
		"organization_id": g.settings.OrganizationID,
		"tenant_id":       g.settings.TenantID,
		"audience":        g.settings.Audience,
		"redirect_uri":    g.redirectURI,
		"scope":           g.settings.Scope,
	}
	if g.settings.AppID != "" {
		params["product_codes"] = productCodePrefix + g.settings.AppID
	}

	for k, v := range params {
		if v == "" {
			delete(params, k)
		}
	}
	return params
}
