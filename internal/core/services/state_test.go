package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	t.Run("generates valid state", func(t *testing.T) {
		state, err := generateState()

		require.NoError(t, err)
		require.NotEmpty(t, state)

		decoded, err := base64.RawURLEncoding.DecodeString(state)
		require.NoError(t, err, "state should be valid base64url")
		assert.Len(t, decoded, stateLength)
	})

	t.Run("uses base64url encoding without padding", func(t *testing.T) {
		state, err := generateState()

		require.NoError(t, err)
		assert.False(t, strings.Contains(state, "="), "should not contain padding")
		assert.False(t, strings.Contains(state, "+"), "should not contain +")
		assert.False(t, strings.Contains(state, "/"), "should not contain /")
	})

	t.Run("generates unique states", func(t *testing.T) {
		states := make(map[string]bool)
		for i := 0; i < 100; i++ {
			state, err := generateState()
			require.NoError(t, err)
			assert.False(t, states[state], "state should be unique")
			states[state] = true
		}
	})
}
