package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/cli"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestBootstrap_Ephemeral(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "env-client.apps.googleusercontent.com")
	t.Setenv("GOOGLE_API_KEY", "AIzaEnvKey")

	s, release, err := bootstrap(context.Background(), cli.Options{Ephemeral: true})
	require.NoError(t, err)
	defer release()

	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "env-client.apps.googleusercontent.com", settings.Google.ClientID)
	assert.Equal(t, "AIzaEnvKey", settings.Google.APIKey)

	assert.Equal(t, domain.StateUninitialized, s.Session.Status().State)
	assert.Empty(t, s.Session.AccessToken())
	assert.NotNil(t, s.Callback)
	assert.NotNil(t, s.Picker)
	assert.False(t, s.Picker.IsReady())
	require.NotNil(t, s.Enterprise)
	assert.False(t, s.Enterprise.Enabled())
}

func TestBootstrap_ConfigDir(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	dir := t.TempDir()

	s, release, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)

	require.NoError(t, s.Settings.Set("google.client_id", "file-client"))
	release()

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "data", "session.db"))

	s, release, err = bootstrap(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	defer release()

	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "file-client", settings.Google.ClientID)
}

func TestBootstrap_InvalidEnvironment(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, _, err := bootstrap(context.Background(), cli.Options{Ephemeral: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
