package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreVersionContract(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)

	key := Key{ID: "1", Value: "KEY-A", CreatedAt: time.Now().UTC(), Status: StatusAvailable}
	require.NoError(t, store.SaveAll(ctx, []Key{key}, snap.Version))
	require.ErrorIs(t, store.SaveAll(ctx, nil, snap.Version), ErrVersionConflict)
}

func TestMemoryStoreSnapshotsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	utr := "UTR001"
	store.Seed([]Key{{ID: "1", Value: "KEY-A", Status: StatusClaimed, UTR: &utr, CreatedAt: time.Now().UTC()}})

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)

	// Mutating the snapshot must not leak into the store.
	*snap.Keys[0].UTR = "TAMPERED"
	snap.Keys[0].Value = "TAMPERED"

	again, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "KEY-A", again.Keys[0].Value)
	require.Equal(t, "UTR001", *again.Keys[0].UTR)
}
