package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("the interactive UI needs a terminal; use 'gconnector status' instead")

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for gconnector.

The TUI shows the Google connection state live and lets you connect or
disconnect the account with single keystrokes.

Controls:
  c - Connect (once the stored session has been checked)
  d - Disconnect
  r - Refresh
  ? - Toggle help
  q - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !isTerminal() {
		return errNotTerminal
	}

	app, err := tui.NewApp(tui.NewPorts(sessionService, enterpriseGuard))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
