// Package cli provides the gconnector command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	loopback "github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/oauth"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var (
	version = "dev"

	verbose   bool
	ephemeral bool
	configDir string
)

// Services wired by main.
var (
	settingsService driving.SettingsService
	sessionService  driving.SessionService
	callbackService driving.CallbackService
	pickerService   driving.PickerService
	enterpriseGuard driving.EnterpriseGuard
)

// openBrowser opens a URL for the user. Replaced in tests.
var openBrowser = loopback.OpenBrowser

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Services are the driving ports the commands use.
type Services struct {
	Settings   driving.SettingsService
	Session    driving.SessionService
	Callback   driving.CallbackService
	Picker     driving.PickerService
	Enterprise driving.EnterpriseGuard
}

// Options carry the global flags into the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.gconnector.
	ConfigDir string
	// Ephemeral keeps settings and credentials in memory only.
	Ephemeral bool
}

// BootstrapFunc builds the services for one command run. The returned
// function releases them.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	bootstrap BootstrapFunc
	release   func()
)

var rootCmd = &cobra.Command{
	Use:   "gconnector",
	Short: "Connect a Google account and pick Drive files",
	Long: `gconnector connects your Google account to a host application.

It acquires an access token through Google's consent screen, keeps it
revalidated between runs, serves the redirect-based sign-in flow and opens
the Google Drive picker.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep settings and credentials in memory only")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.gconnector)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer releaseServices()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services on demand.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices wires the services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	sessionService = s.Session
	callbackService = s.Callback
	pickerService = s.Picker
	enterpriseGuard = s.Enterprise
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipBootstrap] == "true" || bootstrap == nil || sessionService != nil {
		return nil
	}

	s, done, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir, Ephemeral: ephemeral})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(s)
	release = done
	return nil
}

func releaseServices() {
	if release != nil {
		release()
		release = nil
	}
}

// requireSession returns an error if the session is not wired.
func requireSession() error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	return nil
}
