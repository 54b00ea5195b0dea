// Package environ applies settings from process environment variables.
// Environment values take precedence over the config file; unset or empty
// variables leave the file value alone.
package environ

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// Ensure Overlay implements the interface.
var _ driven.SettingsOverlay = (*Overlay)(nil)

// variables holds the raw environment values.
type variables struct {
	GoogleClientID string   `env:"GOOGLE_CLIENT_ID"`
	GoogleAPIKey   string   `env:"GOOGLE_API_KEY"`
	GoogleAppID    string   `env:"GOOGLE_APP_ID"`
	GoogleScopes   string   `env:"GOOGLE_SCOPES"`
	BaseURL        string   `env:"APP_BASE_URL"`
	Port           int      `env:"PORT"`
	Auth0Domain    string   `env:"AUTH0_DOMAIN"`
	Auth0ClientID  string   `env:"AUTH0_CLIENT_ID"`
	Auth0Audience  string   `env:"AUTH0_AUDIENCE"`
	Auth0Scope     string   `env:"AUTH0_SCOPE"`
	OrganizationID string   `env:"SITECORE_ORGANIZATION_ID"`
	TenantID       string   `env:"SITECORE_TENANT_ID"`
	AppID          string   `env:"SITECORE_APP_ID"`
	ParentDomains  []string `env:"CSP_PARENT_DOMAINS" envSeparator:","`
}

// Overlay reads variables at Apply time, so changes made after construction
// are picked up.
type Overlay struct {
	environment map[string]string
}

// NewOverlay creates an overlay over the process environment.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// NewOverlayFrom creates an overlay over a fixed set of variables.
func NewOverlayFrom(environment map[string]string) *Overlay {
	return &Overlay{environment: environment}
}

// Apply overwrites every setting whose variable is set and non-empty.
func (o *Overlay) Apply(settings *domain.AppSettings) error {
	var v variables
	if err := env.ParseWithOptions(&v, env.Options{Environment: o.environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&settings.Google.ClientID, v.GoogleClientID)
	setString(&settings.Google.APIKey, v.GoogleAPIKey)
	setString(&settings.Google.AppID, v.GoogleAppID)
	setString(&settings.Google.Scopes, v.GoogleScopes)
	setString(&settings.Server.BaseURL, v.BaseURL)
	if v.Port != 0 {
		settings.Server.Port = v.Port
	}

	setString(&settings.Enterprise.Domain, v.Auth0Domain)
	setString(&settings.Enterprise.ClientID, v.Auth0ClientID)
	setString(&settings.Enterprise.Audience, v.Auth0Audience)
	setString(&settings.Enterprise.Scope, v.Auth0Scope)
	setString(&settings.Enterprise.OrganizationID, v.OrganizationID)
	setString(&settings.Enterprise.TenantID, v.TenantID)
	setString(&settings.Enterprise.AppID, v.AppID)

	if len(v.ParentDomains) > 0 {
		settings.CSP.ParentDomains = v.ParentDomains
	}
	return nil
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
