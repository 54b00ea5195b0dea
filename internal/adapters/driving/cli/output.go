package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// styled renders s with style only when writing to a terminal.
func styled(style lipgloss.Style, s string) string {
	if !isTerminal() {
		return s
	}
	return style.Render(s)
}

func printStatus(cmd *cobra.Command, status domain.SessionStatus) {
	switch status.State {
	case domain.StateConnected:
		cmd.Printf("Google: %s\n", styled(okStyle, status.State.Description()))
		if status.Profile != nil {
			cmd.Printf("  Name:  %s\n", status.Profile.Name)
			cmd.Printf("  Email: %s\n", status.Profile.Email)
			cmd.Printf("  ID:    %s\n", status.Profile.ID)
		}
	case domain.StateError:
		cmd.Printf("Google: %s\n", styled(errStyle, status.State.Description()))
		cmd.Printf("  %s\n", status.Message)
	default:
		cmd.Printf("Google: %s\n", styled(mutedStyle, status.State.Description()))
	}
}

func printFiles(cmd *cobra.Command, files []domain.PickedFile) {
	cmd.Printf("Selected %d file(s):\n", len(files))
	for _, f := range files {
		cmd.Printf("  %s  %s\n", f.Name, styled(mutedStyle, fmt.Sprintf("[%s, %s]", domain.KindOf(f.MimeType), domain.FormatFileSize(f.SizeBytes))))
		cmd.Printf("    ID:  %s\n", f.ID)
		if f.URL != "" {
			cmd.Printf("    URL: %s\n", f.URL)
		}
		if f.LastEditedUTC != nil {
			cmd.Printf("    Last edited: %s\n", time.UnixMilli(*f.LastEditedUTC).UTC().Format(time.RFC3339))
		}
	}
}
