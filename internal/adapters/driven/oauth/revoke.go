// Package oauth provides the popup grant client and token revocation.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Revoker revokes access tokens at the provider.
type Revoker struct {
	url    string
	client *http.Client
}

// NewRevoker creates a revoker for revokeURL. nil client means a client with
// a 30 second timeout.
func NewRevoker(revokeURL string, client *http.Client) *Revoker {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Revoker{url: revokeURL, client: client}
}

// Revoke asks the provider to invalidate token.
func (r *Revoker) Revoke(ctx context.Context, token string) error {
	data := url.Values{}
	data.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("revoke error: %s - %s", errResp.Error, errResp.Description)
		}
		return fmt.Errorf("revoke request failed with status %d", resp.StatusCode)
	}

	return nil
}
