package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
	assert.Equal(t, []string{"c"}, km.Connect.Keys())
	assert.Equal(t, []string{"d"}, km.Disconnect.Keys())
	assert.Equal(t, []string{"r"}, km.Refresh.Keys())
	assert.Equal(t, []string{"?"}, km.Help.Keys())
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
}

func TestKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, "connect", km.Connect.Help().Desc)
	assert.Equal(t, "disconnect", km.Disconnect.Help().Desc)
	assert.Equal(t, "quit", km.Quit.Help().Desc)
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 4)
	assert.Equal(t, "c", help[0].Help().Key)
	assert.Equal(t, "q", help[3].Help().Key)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	full := km.FullHelp()

	require.Len(t, full, 2)
	assert.Len(t, full[0], 2)
	assert.Len(t, full[1], 3)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		key     string
		binding key.Binding
		want    bool
	}{
		{"connect", "c", km.Connect, true},
		{"quit q", "q", km.Quit, true},
		{"quit ctrl+c", "ctrl+c", km.Quit, true},
		{"wrong key", "x", km.Connect, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, tt.binding))
		})
	}
}

func TestMatches_DisabledBinding(t *testing.T) {
	km := DefaultKeyMap()

	km.SetConnectEnabled(false)
	assert.False(t, Matches("c", km.Connect))

	km.SetConnectEnabled(true)
	assert.True(t, Matches("c", km.Connect))
}
