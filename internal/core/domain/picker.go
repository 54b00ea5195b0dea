package domain

import (
	"fmt"
	"math"
	"strings"
)

// PickedFile is a reference to a file chosen in the Drive picker.
// A batch of PickedFiles is produced atomically per user selection.
type PickedFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	URL           string `json:"url"`
	IconURL       string `json:"iconUrl"`
	SizeBytes     *int64 `json:"sizeBytes,omitempty"`
	LastEditedUTC *int64 `json:"lastEditedUtc,omitempty"`
}

// PickerAction is the action reported by the picker widget.
type PickerAction string

// Picker actions.
const (
	PickerActionPicked PickerAction = "picked"
	PickerActionCancel PickerAction = "cancel"
	PickerActionLoaded PickerAction = "loaded"
)

// PickerDocument is a document as reported by the picker widget.
type PickerDocument struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	URL           string `json:"url"`
	IconURL       string `json:"iconUrl"`
	SizeBytes     *int64 `json:"sizeBytes,omitempty"`
	LastEditedUTC *int64 `json:"lastEditedUtc,omitempty"`
	Description   string `json:"description,omitempty"`
	ParentID      string `json:"parentId,omitempty"`
	ServiceID     string `json:"serviceId,omitempty"`
	Type          string `json:"type,omitempty"`
	EmbedURL      string `json:"embedUrl,omitempty"`
	IsShared      bool   `json:"isShared,omitempty"`
}

// ToPickedFile converts the widget document to an immutable file reference.
func (d PickerDocument) ToPickedFile() PickedFile {
	return PickedFile{
		ID:            d.ID,
		Name:          d.Name,
		MimeType:      d.MimeType,
		URL:           d.URL,
		IconURL:       d.IconURL,
		SizeBytes:     d.SizeBytes,
		LastEditedUTC: d.LastEditedUTC,
	}
}

// PickerResponse is the callback payload posted back by the picker page.
type PickerResponse struct {
	Action PickerAction     `json:"action"`
	Docs   []PickerDocument `json:"docs"`
}

// PickerViewID selects which Drive view the picker opens with.
type PickerViewID string

// Picker views.
const (
	ViewDocs                PickerViewID = "DOCS"
	ViewDocsImages          PickerViewID = "DOCS_IMAGES"
	ViewDocsImagesAndVideos PickerViewID = "DOCS_IMAGES_AND_VIDEOS"
	ViewDocsVideos          PickerViewID = "DOCS_VIDEOS"
	ViewDocuments           PickerViewID = "DOCUMENTS"
	ViewDrawings            PickerViewID = "DRAWINGS"
	ViewFolders             PickerViewID = "FOLDERS"
	ViewForms               PickerViewID = "FORMS"
	ViewPDFs                PickerViewID = "PDFS"
	ViewPhotos              PickerViewID = "PHOTOS"
	ViewPresentations       PickerViewID = "PRESENTATIONS"
	ViewSpreadsheets        PickerViewID = "SPREADSHEETS"
)

// AllPickerViews returns every recognised view.
func AllPickerViews() []PickerViewID {
	return []PickerViewID{
		ViewDocs, ViewDocsImages, ViewDocsImagesAndVideos, ViewDocsVideos,
		ViewDocuments, ViewDrawings, ViewFolders, ViewForms, ViewPDFs,
		ViewPhotos, ViewPresentations, ViewSpreadsheets,
	}
}

// IsValid returns true if the view is recognised.
func (v PickerViewID) IsValid() bool {
	for _, known := range AllPickerViews() {
		if v == known {
			return true
		}
	}
	return false
}

// OrDefault returns the view, or ViewDocs if it is not recognised.
func (v PickerViewID) OrDefault() PickerViewID {
	if v.IsValid() {
		return v
	}
	return ViewDocs
}

// DefaultPickerTitle is shown when no title is given.
const DefaultPickerTitle = "Select a file from Google Drive"

// PickerOptions configures a single picker dialog.
type PickerOptions struct {
	ViewID      PickerViewID `json:"viewId"`
	MultiSelect bool         `json:"multiSelect"`
	Title       string       `json:"title"`
}

// Normalized fills in defaults.
func (o PickerOptions) Normalized() PickerOptions {
	o.ViewID = o.ViewID.OrDefault()
	if strings.TrimSpace(o.Title) == "" {
		o.Title = DefaultPickerTitle
	}
	return o
}

// FileKind is a coarse classification of a MIME type.
type FileKind string

// File kinds, checked in this order.
const (
	KindFolder       FileKind = "folder"
	KindDocument     FileKind = "document"
	KindSpreadsheet  FileKind = "spreadsheet"
	KindPresentation FileKind = "presentation"
	KindImage        FileKind = "image"
	KindVideo        FileKind = "video"
	KindAudio        FileKind = "audio"
	KindPDF          FileKind = "pdf"
	KindOther        FileKind = "other"
)

// KindOf classifies a MIME type.
func KindOf(mimeType string) FileKind {
	for _, k := range []FileKind{
		KindFolder, KindDocument, KindSpreadsheet, KindPresentation,
		KindImage, KindVideo, KindAudio, KindPDF,
	} {
		if strings.Contains(mimeType, string(k)) {
			return k
		}
	}
	return KindOther
}

// FormatFileSize renders a byte count for display.
func FormatFileSize(bytes *int64) string {
	if bytes == nil || *bytes <= 0 {
		return "Unknown size"
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(*bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	return fmt.Sprintf("%.2f %s", float64(*bytes)/math.Pow(1024, float64(i)), sizes[i])
}
