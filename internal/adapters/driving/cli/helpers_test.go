package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/storage/memory"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/services"
)

// fakeGrantClient stands in for the consent popup.
type fakeGrantClient struct {
	mu         sync.Mutex
	handler    driven.GrantHandler
	result     domain.GrantResult
	prepareErr error
	requestErr error
	requests   int
	revoked    []string
}

func (f *fakeGrantClient) Prepare(_ context.Context) error {
	return f.prepareErr
}

func (f *fakeGrantClient) RequestGrant(ctx context.Context, _ driven.GrantRequest) error {
	f.mu.Lock()
	f.requests++
	handler, result, err := f.handler, f.result, f.requestErr
	f.mu.Unlock()

	if err != nil {
		return err
	}
	go handler(context.WithoutCancel(ctx), result)
	return nil
}

func (f *fakeGrantClient) OnGrantResult(handler driven.GrantHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
}

func (f *fakeGrantClient) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeGrantClient) Revoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.revoked...)
}

// fakeProfileClient accepts the tokens it knows.
type fakeProfileClient struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func (f *fakeProfileClient) FetchProfile(_ context.Context, token string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return &p, nil
}

// fakeScriptLoader reports the picker script as available.
type fakeScriptLoader struct {
	err error
}

func (f *fakeScriptLoader) Load(_ context.Context) error { return f.err }
func (f *fakeScriptLoader) URL() string                 { return "https://apis.google.com/js/api.js" }

var testProfile = domain.Profile{
	ID:    "1234567890",
	Email: "ada@example.com",
	Name:  "Ada Lovelace",
}

// testFixture holds the real services wired over fakes.
type testFixture struct {
	config      *memory.ConfigStore
	credentials *memory.CredentialStore
	grants      *fakeGrantClient
	profiles    *fakeProfileClient
	loader      *fakeScriptLoader
	settings    *services.SettingsService
	session     *services.Session
	picker      *services.PickerService
	browserURLs chan string
}

// setupTestServices wires services over memory stores and fake Google
// clients, and restores the package state when the test ends.
func setupTestServices(t *testing.T) *testFixture {
	t.Helper()

	fx := &testFixture{
		config: memory.NewConfigStoreFrom(map[string]any{
			"google.client_id": "client-123.apps.googleusercontent.com",
			"google.api_key":   "AIzaTestKey1234",
			"server.port":      freePort(t),
		}),
		credentials: memory.NewCredentialStore(),
		grants: &fakeGrantClient{
			result: domain.GrantResult{AccessToken: "tok-1", TokenType: "Bearer", ExpiresIn: 3599},
		},
		profiles:    &fakeProfileClient{profiles: map[string]domain.Profile{"tok-1": testProfile}},
		loader:      &fakeScriptLoader{},
		browserURLs: make(chan string, 4),
	}

	fx.settings = services.NewSettingsService(fx.config, nil)
	settings, err := fx.settings.Get()
	require.NoError(t, err)

	fx.session = services.NewSession(fx.credentials, fx.grants, fx.profiles, services.SessionConfig{
		ClientID: settings.Google.ClientID,
		Scopes:   settings.Google.ScopeList(),
	})
	callback := services.NewCallbackService(fx.session, memory.NewStateStore(), &fakeURLBuilder{}, services.CallbackConfig{
		ClientID: settings.Google.ClientID,
		Scopes:   settings.Google.ScopeList(),
		BaseURL:  settings.Server.BaseURL,
	})
	fx.picker = services.NewPickerService(fx.session, fx.loader, nil, services.PickerConfig{
		APIKey: settings.Google.APIKey,
	})

	SetServices(&Services{
		Settings:   fx.settings,
		Session:    fx.session,
		Callback:   callback,
		Picker:     fx.picker,
		Enterprise: services.NewEnterpriseGuard(settings.Enterprise, settings.Server.BaseURL),
	})

	openBrowser = func(url string) error {
		fx.browserURLs <- url
		return nil
	}
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		_ = fx.session.Close()
		resetPackageState()
	})

	return fx
}

// connect stores a validated credential as a previous run would have.
func (fx *testFixture) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.credentials.Save(context.Background(), domain.Credential{
		AccessToken: "tok-1",
		TokenType:   "Bearer",
		Profile:     testProfile,
		UpdatedAt:   time.Now(),
	}))
}

type fakeURLBuilder struct{}

func (fakeURLBuilder) ImplicitGrantURL(_ driven.GrantRequest, redirectURI, state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?redirect_uri=" + redirectURI + "&state=" + state
}

// executeCommand runs the root command with args and returns its output.
// Package state the run may touch is restored when the test ends.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetPackageState)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resetCommands(ctx, rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// resetCommands gives every command the run's context and puts its flags
// back to their defaults. Cobra keeps both on subcommands between
// executions, including the implicit help flag.
func resetCommands(ctx context.Context, cmd *cobra.Command) {
	cmd.SetContext(ctx)
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommands(ctx, sub)
	}
}

var (
	defaultOpenBrowser   = openBrowser
	defaultIsTerminal    = isTerminal
	defaultSettingsInput = settingsInput
)

// resetPackageState clears the services and hooks tests replace.
func resetPackageState() {
	releaseServices()
	SetBootstrap(nil)
	SetServices(nil)
	openBrowser = defaultOpenBrowser
	isTerminal = defaultIsTerminal
	settingsInput = defaultSettingsInput
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}

var errBrowser = errors.New("no browser available")

func newSessionWithoutClientID(fx *testFixture) *services.Session {
	return services.NewSession(fx.credentials, fx.grants, fx.profiles, services.SessionConfig{})
}

// stubSession publishes statuses on demand.
type stubSession struct {
	driving.SessionService

	mu        sync.Mutex
	listeners []func(domain.SessionStatus)
}

func (s *stubSession) Subscribe(fn func(domain.SessionStatus)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	return func() {}
}

func (s *stubSession) publish(st domain.SessionStatus) {
	s.mu.Lock()
	listeners := append([]func(domain.SessionStatus){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}
