package driven

import "github.com/sbsheik/sc-gconnector-gis/internal/core/domain"

// SettingsOverlay applies settings from a source that takes precedence over
// the config file, such as the process environment.
type SettingsOverlay interface {
	// Apply overwrites every field the source sets.
	Apply(settings *domain.AppSettings) error
}
