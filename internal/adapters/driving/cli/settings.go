package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// settingsInput is where the wizard reads answers. Replaced in tests.
var settingsInput io.Reader = os.Stdin

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Google client, server and enterprise settings.

Settings live in ~/.gconnector/config.toml. Environment variables such as
GOOGLE_CLIENT_ID and GOOGLE_API_KEY take precedence over the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting. Lists are comma separated.

Examples:
  gconnector settings set google.client_id 123.apps.googleusercontent.com
  gconnector settings set server.port 4000
  gconnector settings set grant.timeout 2m
  gconnector settings set csp.parent_domains https://a.example.com,https://b.example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the recognised setting keys",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the Google client step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Google]")
	cmd.Printf("  Client ID: %s\n", orNotSet(settings.Google.ClientID))
	if settings.Google.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Google.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  App ID: %s\n", orNotSet(settings.Google.AppID))
	cmd.Printf("  Scopes: %s\n", settings.Google.Scopes)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Base URL: %s\n", settings.Server.BaseURL)
	cmd.Printf("  Port: %d\n", settings.Server.Port)
	cmd.Println()

	cmd.Println("[Grant]")
	cmd.Printf("  Ports: %d-%d\n", settings.Grant.PortMin, settings.Grant.PortMax)
	cmd.Printf("  Timeout: %s\n", settings.Grant.Timeout)
	cmd.Println()

	cmd.Println("[Enterprise]")
	status := "configured"
	if !settings.Enterprise.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Domain: %s\n", orNotSet(settings.Enterprise.Domain))
	cmd.Printf("  Client ID: %s\n", orNotSet(settings.Enterprise.ClientID))
	cmd.Printf("  Organization: %s\n", orNotSet(settings.Enterprise.OrganizationID))
	cmd.Printf("  Tenant: %s\n", orNotSet(settings.Enterprise.TenantID))
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Content Security Policy]")
	cmd.Printf("  Parent domains: %s\n", strings.Join(settings.CSP.ParentDomains, ", "))
	cmd.Printf("  Trusted domains: %d\n", len(settings.CSP.TrustedDomains))
	cmd.Println()

	if settings.Google.ClientID == "" {
		cmd.Println("Warning: google.client_id is not set.")
		cmd.Println("Run 'gconnector settings wizard' to configure it.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (see 'gconnector settings keys')", err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// scopePresets are offered by the wizard.
var scopePresets = []struct {
	label  string
	scopes string
}{
	{"Drive (picker and file metadata)", domain.DefaultScopes},
	{"Drive read-only", "email profile https://www.googleapis.com/auth/drive.readonly"},
	{"Drive files created or opened by this app", "email profile https://www.googleapis.com/auth/drive.file"},
	{"Profile only", "email profile"},
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("gconnector Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(settingsInput)

	cmd.Printf("Google OAuth client ID [%s]: ", orNotSet(current.Google.ClientID))
	if input := readLine(reader); input != "" {
		if err := settingsService.Set("google.client_id", input); err != nil {
			return fmt.Errorf("failed to save client ID: %w", err)
		}
	}

	cmd.Print("Google API key (leave empty to keep): ")
	if input := readSecret(reader); input != "" {
		if err := settingsService.Set("google.api_key", input); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
	}
	cmd.Println()

	cmd.Printf("Google Cloud project number [%s]: ", orNotSet(current.Google.AppID))
	if input := readLine(reader); input != "" {
		if err := settingsService.Set("google.app_id", input); err != nil {
			return fmt.Errorf("failed to save app ID: %w", err)
		}
	}

	cmd.Println()
	cmd.Println("Scopes:")
	for i, p := range scopePresets {
		cmd.Printf("  %d. %s\n", i+1, p.label)
	}
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), len(scopePresets), 1)
	if err := settingsService.Set("google.scopes", scopePresets[choice-1].scopes); err != nil {
		return fmt.Errorf("failed to save scopes: %w", err)
	}

	cmd.Printf("Host application base URL [%s]: ", current.Server.BaseURL)
	if input := readLine(reader); input != "" {
		if err := settingsService.Set("server.base_url", input); err != nil {
			return fmt.Errorf("failed to save base URL: %w", err)
		}
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when the wizard is reading a terminal.
func readSecret(reader *bufio.Reader) string {
	if f, ok := settingsInput.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
