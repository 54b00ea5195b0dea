package driven

import (
	"context"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// FileResolver looks up file metadata the picker did not report.
type FileResolver interface {
	// Resolve fills in missing size and last-modified values.
	// Files it cannot resolve are returned unchanged.
	Resolve(ctx context.Context, accessToken string, files []domain.PickedFile) ([]domain.PickedFile, error)
}
