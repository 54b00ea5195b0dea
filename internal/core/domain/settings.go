package domain

import (
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultScopes       = "email profile https://www.googleapis.com/auth/drive"
	DefaultBaseURL      = "http://localhost:3000"
	DefaultServerPort   = 3000
	DefaultGrantPortMin = 8085
	DefaultGrantPortMax = 8185
	DefaultGrantTimeout = 5 * time.Minute
)

// AppSettings holds the complete application configuration.
type AppSettings struct {
	Google     GoogleSettings
	Server     ServerSettings
	Grant      GrantSettings
	Enterprise EnterpriseSettings
	CSP        CSPSettings
}

// GoogleSettings configures the Google identity and picker integration.
type GoogleSettings struct {
	// ClientID is the OAuth client identifier. Required for any grant.
	ClientID string
	// APIKey is the developer key the picker needs.
	APIKey string
	// AppID is the Cloud project number, optionally passed to the picker.
	AppID string
	// Scopes is the space separated list of requested scopes.
	Scopes string
}

// ScopeList splits Scopes on whitespace.
func (g GoogleSettings) ScopeList() []string {
	return strings.Fields(g.Scopes)
}

// ServerSettings configures the local redirect/picker server.
type ServerSettings struct {
	// BaseURL is the host application's entry point.
	BaseURL string
	// Port is the port the server listens on.
	Port int
}

// GrantSettings configures the loopback popup grant.
type GrantSettings struct {
	PortMin int
	PortMax int
	Timeout time.Duration
}

// EnterpriseSettings configures the organization-scoped identity provider.
type EnterpriseSettings struct {
	Domain         string
	ClientID       string
	Audience       string
	Scope          string
	OrganizationID string
	TenantID       string
	AppID          string
}

// IsConfigured returns true if both domain and client id are set.
func (e EnterpriseSettings) IsConfigured() bool {
	return e.Domain != "" && e.ClientID != ""
}

// CSPSettings configures the Content-Security-Policy sent by the server.
type CSPSettings struct {
	// ParentDomains may embed the app in a frame.
	ParentDomains []string
	// TrustedDomains are allowed for frames, scripts, connections and assets.
	TrustedDomains []string
}

// DefaultParentDomains are the host application origins allowed to frame the app.
func DefaultParentDomains() []string {
	return []string{
		"https://marketplace-app.sitecorecloud.io",
		"https://pages.sitecorecloud.io",
		"https://xmapps.sitecorecloud.io",
	}
}

// DefaultTrustedDomains are the origins the picker needs.
func DefaultTrustedDomains() []string {
	return []string{
		"https://*.google.com",
		"https://*.googleapis.com",
		"https://*.gstatic.com",
		"https://*.googleusercontent.com",
		"https://*.googlevideo.com",
		"https://*.ytimg.com",
		"https://*.ggpht.com",
		"https://*.sitecorecloud.io",
		"https://*.sitecore.io",
	}
}

// DefaultAppSettings returns the default configuration.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Google: GoogleSettings{
			Scopes: DefaultScopes,
		},
		Server: ServerSettings{
			BaseURL: DefaultBaseURL,
			Port:    DefaultServerPort,
		},
		Grant: GrantSettings{
			PortMin: DefaultGrantPortMin,
			PortMax: DefaultGrantPortMax,
			Timeout: DefaultGrantTimeout,
		},
		CSP: CSPSettings{
			ParentDomains:  DefaultParentDomains(),
			TrustedDomains: DefaultTrustedDomains(),
		},
	}
}

// Validate checks the parts every feature depends on.
// Feature specific requirements (client id, API key) are checked where used.
func (s *AppSettings) Validate() error {
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return ErrInvalidInput
	}
	if s.Grant.PortMin <= 0 || s.Grant.PortMax < s.Grant.PortMin || s.Grant.PortMax > 65535 {
		return ErrInvalidInput
	}
	if s.Grant.Timeout <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(s.Server.BaseURL) == "" {
		return ErrInvalidInput
	}
	return nil
}
