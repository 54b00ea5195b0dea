package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// defaultTokenType is assumed when the provider did not name one.
const defaultTokenType = "Bearer"

// NewTokenSource returns a TokenSource that always yields accessToken.
// Tokens from the implicit grant cannot be refreshed, so nothing is cached
// or renewed.
func NewTokenSource(accessToken, tokenType string) oauth2.TokenSource {
	if tokenType == "" {
		tokenType = defaultTokenType
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   tokenType,
	})
}

// NewHTTPClient returns a client that authorises every request with
// accessToken. base supplies the transport; nil means http.DefaultClient.
func NewHTTPClient(ctx context.Context, base *http.Client, accessToken string) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return oauth2.NewClient(ctx, NewTokenSource(accessToken, ""))
}
