package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// PickerScriptURL is the loader script the picker page includes.
const PickerScriptURL = "https://apis.google.com/js/api.js"

// ScriptLoader checks that the picker script can be fetched. The browser
// loads it again itself; this only decides whether the picker is usable.
type ScriptLoader struct {
	url    string
	client *http.Client
}

var _ driven.ScriptLoader = (*ScriptLoader)(nil)

// NewScriptLoader creates a loader. Empty url means PickerScriptURL; nil
// client means a client with a 15 second timeout.
func NewScriptLoader(url string, client *http.Client) *ScriptLoader {
	if url == "" {
		url = PickerScriptURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ScriptLoader{url: url, client: client}
}

// URL returns the script URL.
func (l *ScriptLoader) URL() string {
	return l.url
}

// Load fetches the script once and reports whether it is available.
func (l *ScriptLoader) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch picker script: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("picker script request failed with status %d", resp.StatusCode)
	}
	return nil
}
