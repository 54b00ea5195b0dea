package driving

import "github.com/sbsheik/sc-gconnector-gis/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings (file, then environment).
	Get() (*domain.AppSettings, error)

	// Set stores a single configuration key.
	Set(key, value string) error

	// Keys returns the recognised configuration keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
