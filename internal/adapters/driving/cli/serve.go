package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
)

var serveHost string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the redirect sign-in flow and picker pages",
	Long: `Run the local web server until interrupted.

Routes:
  GET  /auth/google/start            Begin a redirect-based sign-in
  GET  /api/auth/google/callback     Redirect URI registered with Google
  GET  /auth/google/callback         Page that completes the sign-in
  GET  /api/status                   Current connection status
  GET  /api/enterprise               Enterprise provider configuration

The listen port is server.port from the settings.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if settingsService == nil || callbackService == nil {
		return errors.New("callback service not configured")
	}
	ctx := cmd.Context()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	// The redirect flow still works without a stored token; report but continue.
	if err := sessionService.Init(ctx); err != nil {
		cmd.Printf("Warning: %s\n", domain.UserMessage(err))
	}

	addr, serveErr, err := startServer(ctx, settings, serveHost)
	if err != nil {
		return err
	}

	cmd.Printf("Listening on http://%s\n", localhostAddr(addr))
	cmd.Printf("Sign in at %s%s\n", settings.Server.BaseURL, driving.StartPath)
	if enterpriseGuard != nil && !enterpriseGuard.Enabled() {
		cmd.Printf("Enterprise: %s\n", enterpriseGuard.Reason())
	}

	return <-serveErr
}
