package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"

	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/services/catalog"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	store := NewMemoryStore()
	svc := NewService(ServiceParams{
		Store:   store,
		Catalog: catalog.Default(),
		Node:    node,
	})
	return svc, store
}

func TestBulkCreate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A", " KEY-B ", ""})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, k := range created {
		require.Equal(t, "Safe loader", k.Mod)
		require.Equal(t, "3 Day", k.Plan)
		require.Equal(t, int64(300), k.Price, "price snapshots the catalog")
		require.Equal(t, StatusAvailable, k.Status)
		require.NotEmpty(t, k.ID)
	}
	require.Equal(t, "KEY-B", created[1].Value, "values are trimmed")

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Keys, 2)
}

func TestBulkCreateRejectsWholeBatchOnDuplicate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A"})
	require.NoError(t, err)

	_, err = svc.BulkCreate(ctx, "Ignis mod", "1 Day", []string{"KEY-NEW", "KEY-A"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusConflict, errutil.StatusOf(err))

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Keys, 1, "nothing from the failed batch may persist")
}

func TestBulkCreateRejectsDuplicateWithinBatch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BulkCreate(context.Background(), "Safe loader", "3 Day", []string{"KEY-A", "KEY-A"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusConflict, errutil.StatusOf(err))
}

func TestBulkCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "No such mod", "3 Day", []string{"KEY-A"})
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusOf(err))

	_, err = svc.BulkCreate(ctx, "Kristal mod", "3 Day", []string{"KEY-A"})
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusOf(err), "coming-soon mods cannot take stock")

	_, err = svc.BulkCreate(ctx, "Safe loader", "Lifetime", []string{"KEY-A"})
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusOf(err))

	_, err = svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"  ", ""})
	require.Equal(t, errutil.StatusValidationFailed, errutil.StatusOf(err))
}

func TestDeleteKey(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A", "KEY-B"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created[0].ID))

	snap, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Keys, 1)
	require.Equal(t, "KEY-B", snap.Keys[0].Value)

	err = svc.Delete(ctx, created[0].ID)
	require.Equal(t, errutil.StatusNotFound, errutil.StatusOf(err))
}

func seedClaimed(t *testing.T, store *MemoryStore, svc *Service, mod, plan, value, utr string, claimedAt time.Time) {
	t.Helper()

	created, err := svc.BulkCreate(context.Background(), mod, plan, []string{value})
	require.NoError(t, err)

	snap, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	for i := range snap.Keys {
		if snap.Keys[i].ID == created[0].ID {
			u := utr
			snap.Keys[i].Status = StatusClaimed
			snap.Keys[i].UTR = &u
			snap.Keys[i].ClaimedAt = &claimedAt
		}
	}
	require.NoError(t, store.SaveAll(context.Background(), snap.Keys, snap.Version))
}

func TestListGroupsByPlanTier(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Created out of tier order on purpose.
	_, err := svc.BulkCreate(ctx, "Safe loader", "1 Month", []string{"KEY-MONTH"})
	require.NoError(t, err)
	_, err = svc.BulkCreate(ctx, "Safe loader", "1 Day", []string{"KEY-DAY"})
	require.NoError(t, err)
	_, err = svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-3DAY-A", "KEY-3DAY-B"})
	require.NoError(t, err)

	keys, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, keys, 4)

	require.Equal(t, "KEY-DAY", keys[0].Value)
	require.Equal(t, "KEY-3DAY-A", keys[1].Value, "creation order holds within a tier")
	require.Equal(t, "KEY-3DAY-B", keys[2].Value)
	require.Equal(t, "KEY-MONTH", keys[3].Value)
}

func TestStats(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A", "KEY-B"})
	require.NoError(t, err)

	now := time.Now().UTC()
	seedClaimed(t, store, svc, "Safe loader", "1 Day", "KEY-ACTIVE", "UTR001", now.Add(-time.Hour))
	seedClaimed(t, store, svc, "Ignis mod", "1 Day", "KEY-EXPIRED", "UTR002", now.Add(-48*time.Hour))

	stats, err := svc.Stats(ctx, "")
	require.NoError(t, err)

	require.Equal(t, 4, stats.TotalKeys)
	require.Equal(t, 2, stats.Available)
	require.Equal(t, 1, stats.ActiveClaimed)
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, int64(150), stats.TotalBalance, "only active claims count toward balance")

	var safe, ignis ModSales
	for _, m := range stats.SalesByMod {
		switch m.Name {
		case "Safe loader":
			safe = m
		case "Ignis mod":
			ignis = m
		}
	}
	require.Equal(t, 1, safe.KeysSold)
	require.Equal(t, int64(150), safe.Revenue)
	require.Equal(t, 1, ignis.KeysSold)
	require.Equal(t, int64(150), ignis.Revenue, "expired sales still count as revenue")
}

func TestStatsFilteredByMod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A"})
	require.NoError(t, err)
	_, err = svc.BulkCreate(ctx, "Ignis mod", "3 Day", []string{"KEY-B"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "Safe loader")
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalKeys)
}

func TestAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-A", "KEY-B"})
	require.NoError(t, err)

	out, err := svc.Availability(ctx)
	require.NoError(t, err)

	// 4 sellable mods x 6 plans; coming-soon mods are omitted.
	require.Len(t, out, 24)

	byPair := make(map[string]Availability, len(out))
	for _, a := range out {
		require.NotEqual(t, "Kristal mod", a.Mod)
		byPair[a.Mod+"/"+a.Plan] = a
	}
	require.Equal(t, 2, byPair["Safe loader/3 Day"].Available)
	require.Equal(t, 0, byPair["Safe loader/1 Day"].Available)
	require.Equal(t, int64(300), byPair["Safe loader/3 Day"].Price)
}

func TestLookup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.BulkCreate(ctx, "Safe loader", "3 Day", []string{"KEY-FREE"})
	require.NoError(t, err)
	seedClaimed(t, store, svc, "Safe loader", "3 Day", "KEY-TAKEN", "UTR001", time.Now().UTC())

	byValue, err := svc.Lookup(ctx, "KEY-TAKEN")
	require.NoError(t, err)
	require.Equal(t, "KEY-TAKEN", byValue.Value)

	byUTR, err := svc.Lookup(ctx, "UTR001")
	require.NoError(t, err)
	require.Equal(t, "KEY-TAKEN", byUTR.Value)

	_, err = svc.Lookup(ctx, "KEY-FREE")
	require.Equal(t, errutil.StatusNotFound, errutil.StatusOf(err), "unclaimed keys stay hidden")

	_, err = svc.Lookup(ctx, "  ")
	require.Equal(t, errutil.StatusValidationFailed, errutil.StatusOf(err))
}
