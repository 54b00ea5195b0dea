package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultScopes, s.Google.Scopes)
	assert.Equal(t, []string{"email", "profile", "https://www.googleapis.com/auth/drive"}, s.Google.ScopeList())
	assert.Equal(t, DefaultBaseURL, s.Server.BaseURL)
	assert.Equal(t, DefaultServerPort, s.Server.Port)
	assert.Equal(t, DefaultGrantTimeout, s.Grant.Timeout)
	assert.NotEmpty(t, s.CSP.ParentDomains)
	assert.NotEmpty(t, s.CSP.TrustedDomains)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"zero port", func(s *AppSettings) { s.Server.Port = 0 }},
		{"port too large", func(s *AppSettings) { s.Server.Port = 70000 }},
		{"inverted grant range", func(s *AppSettings) { s.Grant.PortMax = s.Grant.PortMin - 1 }},
		{"zero timeout", func(s *AppSettings) { s.Grant.Timeout = 0 }},
		{"empty base url", func(s *AppSettings) { s.Server.BaseURL = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestEnterpriseSettings_IsConfigured(t *testing.T) {
	assert.False(t, EnterpriseSettings{}.IsConfigured())
	assert.False(t, EnterpriseSettings{Domain: "login.example.com"}.IsConfigured())
	assert.True(t, EnterpriseSettings{Domain: "login.example.com", ClientID: "abc"}.IsConfigured())
}
