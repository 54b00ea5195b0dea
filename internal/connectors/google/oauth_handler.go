package google

import (
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// RevokeURL is Google's token revocation endpoint.
const RevokeURL = "https://oauth2.googleapis.com/revoke"

// AuthURLBuilder renders Google authorization URLs for the implicit grant.
type AuthURLBuilder struct {
	endpoint oauth2.Endpoint
}

var _ driven.AuthURLBuilder = (*AuthURLBuilder)(nil)

// NewAuthURLBuilder creates a builder. An empty authURL uses Google's endpoint.
func NewAuthURLBuilder(authURL string) *AuthURLBuilder {
	endpoint := googleoauth.Endpoint
	if authURL != "" {
		endpoint.AuthURL = authURL
	}
	return &AuthURLBuilder{endpoint: endpoint}
}

// ImplicitGrantURL returns the consent URL. The token comes back in the
// redirect fragment, so no client secret or code exchange is involved.
func (b *AuthURLBuilder) ImplicitGrantURL(req driven.GrantRequest, redirectURI, state string) string {
	cfg := oauth2.Config{
		ClientID:    req.ClientID,
		Endpoint:    b.endpoint,
		RedirectURL: redirectURI,
		Scopes:      req.Scopes,
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", "token"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	}
	if req.ForceConsent {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}

	return cfg.AuthCodeURL(state, opts...)
}
