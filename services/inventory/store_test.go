package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"modkeys-storefront/services/testutil"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db := testutil.NewTestDB(t, Models()...)
	return NewGormStore(StoreParams{DB: db})
}

func TestGormStoreLoadAllEmpty(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), snap.Version)
	require.Empty(t, snap.Keys)
}

func TestGormStoreSaveAllRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	keys := []Key{
		{ID: "2", Value: "KEY-B", Mod: "Safe loader", Plan: "3 Day", Price: 300, Status: StatusAvailable, CreatedAt: now.Add(time.Second)},
		{ID: "1", Value: "KEY-A", Mod: "Safe loader", Plan: "3 Day", Price: 300, Status: StatusAvailable, CreatedAt: now},
	}
	require.NoError(t, store.SaveAll(ctx, keys, snap.Version))

	reloaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, snap.Version+1, reloaded.Version)
	require.Len(t, reloaded.Keys, 2)

	// Oldest first regardless of insert order.
	require.Equal(t, "KEY-A", reloaded.Keys[0].Value)
	require.Equal(t, "KEY-B", reloaded.Keys[1].Value)
}

func TestGormStoreStaleVersionConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)

	key := Key{ID: "1", Value: "KEY-A", Mod: "Safe loader", Plan: "1 Day", Price: 150, Status: StatusAvailable, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveAll(ctx, []Key{key}, snap.Version))

	// A second writer holding the old version must lose.
	err = store.SaveAll(ctx, nil, snap.Version)
	require.ErrorIs(t, err, ErrVersionConflict)

	reloaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Keys, 1, "losing writer must not change the collection")
}

func TestGormStoreReplaceAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, store.SaveAll(ctx, []Key{
		{ID: "1", Value: "KEY-A", Mod: "Ignis mod", Plan: "1 Day", Price: 150, Status: StatusAvailable, CreatedAt: now},
		{ID: "2", Value: "KEY-B", Mod: "Ignis mod", Plan: "1 Day", Price: 150, Status: StatusAvailable, CreatedAt: now},
	}, snap.Version))

	snap, err = store.LoadAll(ctx)
	require.NoError(t, err)

	utr := "UTR001"
	claimed := time.Now().UTC()
	snap.Keys[0].Status = StatusClaimed
	snap.Keys[0].UTR = &utr
	snap.Keys[0].ClaimedAt = &claimed
	require.NoError(t, store.SaveAll(ctx, snap.Keys[:1], snap.Version))

	reloaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Keys, 1, "save replaces the whole collection")
	require.Equal(t, StatusClaimed, reloaded.Keys[0].Status)
	require.NotNil(t, reloaded.Keys[0].UTR)
	require.Equal(t, "UTR001", *reloaded.Keys[0].UTR)
}
