package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestCredentialStore_Load_Empty(t *testing.T) {
	store := NewCredentialStore()

	cred, err := store.Load(context.Background())

	assert.Nil(t, cred)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	err := store.Save(ctx, domain.Credential{
		AccessToken: "tok1",
		Profile:     domain.Profile{ID: "u1", Email: "a@b.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok1", cred.AccessToken)
	assert.Equal(t, "u1", cred.Profile.ID)

	// Mutating the returned copy must not affect the store
	cred.AccessToken = "changed"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok1", again.AccessToken)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx), "clearing twice is not an error")

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
