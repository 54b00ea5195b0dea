package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/config/environ"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/config/file"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/oauth"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/storage/memory"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/storage/sqlite"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/cli"
	"github.com/sbsheik/sc-gconnector-gis/internal/connectors/google"
	"github.com/sbsheik/sc-gconnector-gis/internal/connectors/google/drive"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/services"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

const httpTimeout = 30 * time.Second

// bootstrap wires the services for one command run.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := newConfigStore(opts)
	if err != nil {
		return nil, nil, err
	}

	settingsService := services.NewSettingsService(configStore, environ.NewOverlay())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}

	credentials, states, closeStore, err := newSessionStores(opts)
	if err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: httpTimeout}
	apiOpts := google.ServiceOptions{HTTPClient: httpClient}
	urls := google.NewAuthURLBuilder("")

	grants := oauth.NewPopupGrantClient(oauth.GrantConfig{
		PortMin: settings.Grant.PortMin,
		PortMax: settings.Grant.PortMax,
		Timeout: settings.Grant.Timeout,
		OnAuthURL: func(url string) {
			fmt.Fprintf(os.Stderr, "If your browser did not open, visit:\n  %s\n", url)
		},
	}, urls, oauth.NewRevoker(google.RevokeURL, httpClient))

	scopes := settings.Google.ScopeList()
	session := services.NewSession(credentials, grants, google.NewProfileClient(apiOpts), services.SessionConfig{
		ClientID: settings.Google.ClientID,
		Scopes:   scopes,
	})

	callback := services.NewCallbackService(session, states, urls, services.CallbackConfig{
		ClientID: settings.Google.ClientID,
		Scopes:   scopes,
		BaseURL:  settings.Server.BaseURL,
	})

	picker := services.NewPickerService(
		session,
		google.NewScriptLoader(google.PickerScriptURL, httpClient),
		drive.NewResolver(drive.DefaultConfig(), apiOpts),
		services.PickerConfig{
			APIKey: settings.Google.APIKey,
			AppID:  settings.Google.AppID,
		},
	)

	guard := services.NewEnterpriseGuard(settings.Enterprise, settings.Server.BaseURL+driving.ProviderCallbackPath)
	if !guard.Enabled() {
		logger.Debug("Enterprise sign-in disabled: %s", guard.Reason())
	}

	release := func() {
		if err := session.Close(); err != nil {
			logger.Warn("Closing session: %v", err)
		}
		if err := closeStore(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}

	return &cli.Services{
		Settings:   settingsService,
		Session:    session,
		Callback:   callback,
		Picker:     picker,
		Enterprise: guard,
	}, release, nil
}

func newConfigStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.Ephemeral {
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// newSessionStores opens the credential and state stores. Ephemeral runs
// keep both in memory and forget them on exit.
func newSessionStores(opts cli.Options) (driven.CredentialStore, driven.StateStore, func() error, error) {
	if opts.Ephemeral {
		return memory.NewCredentialStore(), memory.NewStateStore(), func() error { return nil }, nil
	}

	dataDir := ""
	if opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open session store: %w", err)
	}
	logger.Debug("Session store at %s", store.Path())

	return store.CredentialStore(), store.StateStore(), store.Close, nil
}
