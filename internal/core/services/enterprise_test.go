package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestEnterpriseGuard_Disabled(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.EnterpriseSettings
	}{
		{name: "nothing set"},
		{name: "domain only", settings: domain.EnterpriseSettings{Domain: "auth.example.com"}},
		{name: "client only", settings: domain.EnterpriseSettings{ClientID: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewEnterpriseGuard(tt.settings, "http://localhost:3000")

			assert.False(t, g.Enabled())
			assert.NotEmpty(t, g.Reason())
			assert.Nil(t, g.AuthorizationParams())
		})
	}
}

func TestEnterpriseGuard_AuthorizationParams(t *testing.T) {
	g := NewEnterpriseGuard(domain.EnterpriseSettings{
		Domain:         "auth.example.com",
		ClientID:       "abc",
		Audience:       "https://api.example.com",
		Scope:          "openid profile",
		OrganizationID: "org-1",
		TenantID:       "tenant-1",
		AppID:          "app-9",
	}, "http://localhost:3000")

	assert.True(t, g.Enabled())
	assert.Empty(t, g.Reason())
	assert.Equal(t, map[string]string{
		"organization_id": "org-1",
		"tenant_id":       "tenant-1",
		"audience":        "https://api.example.com",
		"redirect_uri":    "http://localhost:3000",
		"scope":           "openid profile",
		"product_codes":   "mkp_app-9",
	}, g.AuthorizationParams())
}

func TestEnterpriseGuard_OmitsEmptyParams(t *testing.T) {
	g := NewEnterpriseGuard(domain.EnterpriseSettings{
		Domain:   "auth.example.com",
		ClientID: "abc",
	}, "http://localhost:3000")

	assert.Equal(t, map[string]string{"redirect_uri": "http://localhost:3000"}, g.AuthorizationParams())
}
