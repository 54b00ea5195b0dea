package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyGoogleClientID     = "google.client_id"
	keyGoogleAPIKey       = "google.api_key"
	keyGoogleAppID        = "google.app_id"
	keyGoogleScopes       = "google.scopes"
	keyServerBaseURL      = "server.base_url"
	keyServerPort         = "server.port"
	keyGrantPortMin       = "grant.port_min"
	keyGrantPortMax       = "grant.port_max"
	keyGrantTimeout       = "grant.timeout"
	keyEnterpriseDomain   = "enterprise.domain"
	keyEnterpriseClientID = "enterprise.client_id"
	keyEnterpriseAudience = "enterprise.audience"
	keyEnterpriseScope    = "enterprise.scope"
	keyEnterpriseOrgID    = "enterprise.organization_id"
	keyEnterpriseTenantID = "enterprise.tenant_id"
	keyEnterpriseAppID    = "enterprise.app_id"
	keyCSPParentDomains   = "csp.parent_domains"
	keyCSPTrustedDomains  = "csp.trusted_domains"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindDuration
	kindList
)

var settingKeys = map[string]keyKind{
	keyGoogleClientID:     kindString,
	keyGoogleAPIKey:       kindString,
	keyGoogleAppID:        kindString,
	keyGoogleScopes:       kindString,
	keyServerBaseURL:      kindString,
	keyServerPort:         kindInt,
	keyGrantPortMin:       kindInt,
	keyGrantPortMax:       kindInt,
	keyGrantTimeout:       kindDuration,
	keyEnterpriseDomain:   kindString,
	keyEnterpriseClientID: kindString,
	keyEnterpriseAudience: kindString,
	keyEnterpriseScope:    kindString,
	keyEnterpriseOrgID:    kindString,
	keyEnterpriseTenantID: kindString,
	keyEnterpriseAppID:    kindString,
	keyCSPParentDomains:   kindList,
	keyCSPTrustedDomains:  kindList,
}

// SettingsService manages application settings.
// Values come from the config store and are then overridden by the overlay.
type SettingsService struct {
	configStore driven.ConfigStore
	overlay     driven.SettingsOverlay
}

// NewSettingsService creates a new settings service. overlay may be nil.
func NewSettingsService(configStore driven.ConfigStore, overlay driven.SettingsOverlay) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overlay:     overlay,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Google: domain.GoogleSettings{
			ClientID: s.configStore.GetString(keyGoogleClientID),
			APIKey:   s.configStore.GetString(keyGoogleAPIKey),
			AppID:    s.configStore.GetString(keyGoogleAppID),
			Scopes:   s.getString(keyGoogleScopes, defaults.Google.Scopes),
		},
		Server: domain.ServerSettings{
			BaseURL: strings.TrimRight(s.getString(keyServerBaseURL, defaults.Server.BaseURL), "/"),
			Port:    s.getInt(keyServerPort, defaults.Server.Port),
		},
		Grant: domain.GrantSettings{
			PortMin: s.getInt(keyGrantPortMin, defaults.Grant.PortMin),
			PortMax: s.getInt(keyGrantPortMax, defaults.Grant.PortMax),
			Timeout: s.getDuration(keyGrantTimeout, defaults.Grant.Timeout),
		},
		Enterprise: domain.EnterpriseSettings{
			Domain:         s.configStore.GetString(keyEnterpriseDomain),
			ClientID:       s.configStore.GetString(keyEnterpriseClientID),
			Audience:       s.configStore.GetString(keyEnterpriseAudience),
			Scope:          s.configStore.GetString(keyEnterpriseScope),
			OrganizationID: s.configStore.GetString(keyEnterpriseOrgID),
			TenantID:       s.configStore.GetString(keyEnterpriseTenantID),
			AppID:          s.configStore.GetString(keyEnterpriseAppID),
		},
		CSP: domain.CSPSettings{
			ParentDomains:  s.getList(keyCSPParentDomains, defaults.CSP.ParentDomains),
			TrustedDomains: s.getList(keyCSPTrustedDomains, defaults.CSP.TrustedDomains),
		},
	}

	if s.overlay != nil {
		if err := s.overlay.Apply(settings); err != nil {
			return nil, fmt.Errorf("apply settings overlay: %w", err)
		}
		settings.Server.BaseURL = strings.TrimRight(settings.Server.BaseURL, "/")
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return settings, nil
}

// Set stores a single configuration key, converting the value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting %q expects an integer: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, n)
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("setting %q expects a duration: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, value)
	case kindList:
		return s.configStore.Set(key, splitList(value))
	default:
		return s.configStore.Set(key, value)
	}
}

// Keys returns the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
