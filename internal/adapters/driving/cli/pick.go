package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/httpserver"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

const defaultPickTimeout = 10 * time.Minute

var (
	pickView    string
	pickMulti   bool
	pickTitle   string
	pickJSON    bool
	pickTimeout time.Duration
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Select files with the Google Drive picker",
	Long: `Open the Google Drive picker in your browser and print the selected files.

Requires a connected Google account and google.api_key in the settings.

Views:
  DOCS, DOCS_IMAGES, DOCS_IMAGES_AND_VIDEOS, DOCS_VIDEOS, DOCUMENTS, DRAWINGS,
  FOLDERS, FORMS, PDFS, PHOTOS, PRESENTATIONS, SPREADSHEETS

Examples:
  gconnector pick
  gconnector pick --view SPREADSHEETS --multi
  gconnector pick --json > selection.json`,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickView, "view", string(domain.ViewDocs), "Drive view to open")
	pickCmd.Flags().BoolVar(&pickMulti, "multi", false, "Allow selecting several files")
	pickCmd.Flags().StringVar(&pickTitle, "title", domain.DefaultPickerTitle, "Picker dialog title")
	pickCmd.Flags().BoolVar(&pickJSON, "json", false, "Print the selection as JSON")
	pickCmd.Flags().DurationVar(&pickTimeout, "timeout", defaultPickTimeout, "How long to wait for a selection")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if pickerService == nil || settingsService == nil {
		return errors.New("picker service not configured")
	}
	ctx := cmd.Context()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := sessionService.Init(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	if err := pickerService.Ready(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	picked := make(chan []domain.PickedFile, 1)
	session, err := pickerService.Open(ctx, domain.PickerOptions{
		ViewID:      domain.PickerViewID(pickView),
		MultiSelect: pickMulti,
		Title:       pickTitle,
	}, func(files []domain.PickedFile) {
		picked <- files
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	addr, serveErr, err := startServer(serveCtx, settings, "127.0.0.1")
	if err != nil {
		return err
	}

	pageURL := httpserver.PickerURL("http://"+localhostAddr(addr), session.ID)
	cmd.Printf("Opening the Google Drive picker...\n")
	if err := openBrowser(pageURL); err != nil {
		cmd.Printf("Open this URL in your browser: %s\n", pageURL)
	}

	timer := time.NewTimer(pickTimeout)
	defer timer.Stop()

	select {
	case files := <-picked:
		return writeSelection(cmd, files)
	case <-session.Done:
		// Closed without a batch.
		select {
		case files := <-picked:
			return writeSelection(cmd, files)
		default:
		}
		cmd.Println("Picker cancelled.")
		return nil
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-timer.C:
		return errors.New("timed out waiting for a selection")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeSelection(cmd *cobra.Command, files []domain.PickedFile) error {
	if pickJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}
	printFiles(cmd, files)
	return nil
}

// startServer serves the web routes in the background and returns once
// listening. The error channel receives the serve result.
func startServer(ctx context.Context, settings *domain.AppSettings, host string) (string, <-chan error, error) {
	server := httpserver.New(httpserver.Config{
		Addr: net.JoinHostPort(host, fmt.Sprint(settings.Server.Port)),
		CSP:  settings.CSP,
	}, httpserver.Services{
		Session:    sessionService,
		Callback:   callbackService,
		Picker:     pickerService,
		Enterprise: enterpriseGuard,
	})

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(ctx, func(addr string) { addrCh <- addr })
	}()

	select {
	case addr := <-addrCh:
		return addr, errCh, nil
	case err := <-errCh:
		if err == nil {
			err = errors.New("server exited")
		}
		return "", nil, err
	}
}

// localhostAddr swaps a loopback IP for "localhost" so the page origin
// matches what the API key allows.
func localhostAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
