package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

func TestStateStore_Take_SingleUse(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "S1"}))

	got, err := store.Take(ctx, "S1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "S1", got.State)

	got, err = store.Take(ctx, "S1")
	require.NoError(t, err)
	assert.Nil(t, got, "state must be consumed by the first take")
}

func TestStateStore_ConcurrentFlows(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "S1"}))
	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "S2"}))
	assert.Equal(t, 2, store.Len())

	got, err := store.Take(ctx, "S1")
	require.NoError(t, err)
	require.NotNil(t, got, "a later flow does not invalidate an earlier one")
	assert.True(t, store.Has("S2"))
}

func TestStateStore_Take_Unknown(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()
	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "S1"}))

	got, err := store.Take(ctx, "forged")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, store.Has("S1"), "unknown values consume nothing")
}

func TestStateStore_Take_Expired(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, domain.PendingState{
		State:     "S1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err := store.Take(ctx, "S1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, store.Has("S1"), "expired state is still removed")
}

func TestStateStore_Stash_PrunesExpired(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Stash(ctx, domain.PendingState{State: "new"}))

	assert.False(t, store.Has("old"))
	assert.Equal(t, 1, store.Len())
}

func TestStateStore_Stash_RequiresState(t *testing.T) {
	err := NewStateStore().Stash(context.Background(), domain.PendingState{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
