package drive

import (
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// needsMetadata reports whether the picker left out anything Drive knows.
func needsMetadata(f domain.PickedFile) bool {
	return f.SizeBytes == nil || f.LastEditedUTC == nil || f.URL == "" || f.IconURL == ""
}

// mergeMetadata fills the gaps in f from a Drive file. Values the picker
// reported are kept.
func mergeMetadata(f domain.PickedFile, df *drive.File) domain.PickedFile {
	if f.Name == "" {
		f.Name = df.Name
	}
	if f.MimeType == "" {
		f.MimeType = df.MimeType
	}
	if f.URL == "" {
		f.URL = df.WebViewLink
	}
	if f.IconURL == "" {
		f.IconURL = df.IconLink
	}
	// Workspace files have no byte size.
	if f.SizeBytes == nil && df.Size > 0 {
		size := df.Size
		f.SizeBytes = &size
	}
	if f.LastEditedUTC == nil && df.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, df.ModifiedTime); err == nil {
			ms := t.UnixMilli()
			f.LastEditedUTC = &ms
		}
	}
	return f
}
