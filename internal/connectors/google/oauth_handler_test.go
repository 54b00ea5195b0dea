package google

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

func TestAuthURLBuilder_ImplicitGrantURL(t *testing.T) {
	b := NewAuthURLBuilder("")

	raw := b.ImplicitGrantURL(driven.GrantRequest{
		ClientID:     "client-123",
		Scopes:       []string{"email", "profile"},
		ForceConsent: true,
	}, "http://127.0.0.1:8085/callback", "S1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)

	q := u.Query()
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:8085/callback", q.Get("redirect_uri"))
	assert.Equal(t, "email profile", q.Get("scope"))
	assert.Equal(t, "S1", q.Get("state"))
	assert.Equal(t, "consent", q.Get("prompt"))
}

func TestAuthURLBuilder_CustomEndpointNoConsent(t *testing.T) {
	b := NewAuthURLBuilder("https://auth.example.com/authorize")

	raw := b.ImplicitGrantURL(driven.GrantRequest{ClientID: "c"}, "http://localhost/cb", "S")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.example.com", u.Host)
	assert.Empty(t, u.Query().Get("prompt"))
}
