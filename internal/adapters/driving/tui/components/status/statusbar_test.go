package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/keymap"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/styles"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, domain.StateUninitialized, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetStatus(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetStatus(domain.SessionStatus{State: domain.StateError, Message: "service unavailable"})

	assert.Equal(t, domain.StateError, bar.State())
	assert.Equal(t, "service unavailable", bar.Message())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name   string
		status domain.SessionStatus
		want   string
	}{
		{"uninitialized", domain.SessionStatus{State: domain.StateUninitialized}, "Not connected"},
		{"loading", domain.SessionStatus{State: domain.StateLoading}, "Connecting..."},
		{"connected", domain.SessionStatus{State: domain.StateConnected}, "Connected"},
		{"error", domain.SessionStatus{State: domain.StateError, Message: "Popup window closed"}, "Error: Popup window closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetStatus(tt.status)

			view := bar.View()

			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "q: quit")
		})
	}
}

func TestStatusBar_View_HidesDisabledHints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	km.SetConnectEnabled(false)
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	view := bar.View()

	assert.NotContains(t, view, "c: connect")
	assert.Contains(t, view, "d: disconnect")
}

func TestStatusBar_View_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
