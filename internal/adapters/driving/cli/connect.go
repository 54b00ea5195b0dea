package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect your Google account",
	Long: `Open Google's consent screen in your browser and store the resulting
access token. Consent is always requested again, so this also switches accounts.

The token is verified against Google's profile endpoint before it is stored.`,
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Revoke and forget the Google token",
	RunE:  runDisconnect,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Google connection status",
	Long: `Revalidate the stored token against Google and show the result.
A token Google no longer accepts is removed.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if err := sessionService.Init(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	watch := watchOutcome(sessionService)
	defer watch.stop()

	cmd.Println("Opening Google sign-in in your browser...")
	if err := sessionService.Connect(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	status, err := watch.wait(ctx)
	if err != nil {
		return err
	}
	printStatus(cmd, status)
	if status.State == domain.StateError {
		return errors.New(status.Message)
	}
	return nil
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	if err := sessionService.Disconnect(cmd.Context()); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	cmd.Println("Disconnected from Google.")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	// Init failures are reported through the status itself.
	_ = sessionService.Init(cmd.Context())
	printStatus(cmd, sessionService.Status())

	if enterpriseGuard != nil {
		if enterpriseGuard.Enabled() {
			cmd.Printf("Enterprise: %s\n", styled(okStyle, "enabled"))
		} else {
			cmd.Printf("Enterprise: %s\n", styled(mutedStyle, "disabled"))
		}
	}
	return nil
}

// outcomeWatcher waits for a connect attempt to settle.
type outcomeWatcher struct {
	mu          sync.Mutex
	latest      domain.SessionStatus
	seen        bool
	notify      chan struct{}
	unsubscribe func()
}

// watchOutcome must be called before Connect so no update is missed.
func watchOutcome(session driving.SessionService) *outcomeWatcher {
	w := &outcomeWatcher{notify: make(chan struct{}, 1)}
	w.unsubscribe = session.Subscribe(func(st domain.SessionStatus) {
		w.mu.Lock()
		w.latest = st
		w.seen = true
		w.mu.Unlock()

		select {
		case w.notify <- struct{}{}:
		default:
		}
	})
	return w
}

// wait returns the first settled status published after Connect.
func (w *outcomeWatcher) wait(ctx context.Context) (domain.SessionStatus, error) {
	for {
		w.mu.Lock()
		st, seen := w.latest, w.seen
		w.mu.Unlock()

		if seen && st.State != domain.StateLoading {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return domain.SessionStatus{}, ctx.Err()
		case <-w.notify:
		}
	}
}

func (w *outcomeWatcher) stop() {
	w.unsubscribe()
}
