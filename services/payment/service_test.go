package payment

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"

	"modkeys-storefront/pkg/db/pagination"
	"modkeys-storefront/pkg/repository"
	"modkeys-storefront/services/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Payment{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{
		Repo: repository.ProvideStore[Payment](db),
		Node: node,
	})
}

func TestRecordAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	keyID := "key-1"
	verified, err := svc.Record(ctx, Record{
		OrderCode: "ORD-260828-001AB",
		Mod:       "Safe loader",
		Plan:      "3 Day",
		Amount:    300,
		UTR:       "UTR001",
		Status:    StatusVerified,
		KeyID:     &keyID,
		Metadata:  map[string]any{"mime_type": "image/png"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, verified.ID)

	_, err = svc.Record(ctx, Record{
		Mod:    "Safe loader",
		Plan:   "3 Day",
		Amount: 300,
		UTR:    "UTR002",
		Status: StatusRejected,
		Reason: "Amount in screenshot does not match plan price.",
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	rejected, err := svc.List(ctx, ListFilter{Status: StatusRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	require.Equal(t, "UTR002", rejected[0].UTR)
	require.Equal(t, "Amount in screenshot does not match plan price.", rejected[0].Reason)

	byUTR, err := svc.List(ctx, ListFilter{UTR: "UTR001"})
	require.NoError(t, err)
	require.Len(t, byUTR, 1)
	require.NotNil(t, byUTR[0].KeyID)
	require.Equal(t, "key-1", *byUTR[0].KeyID)
}

func TestListPage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Record(ctx, Record{Mod: "Ignis mod", Plan: "1 Day", Amount: 150, UTR: fmt.Sprintf("UTR%03d", i), Status: StatusVerified})
		require.NoError(t, err)
	}

	first, info, err := svc.ListPage(ctx, ListFilter{}, pagination.Pagination{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.True(t, info.HasMore)
	require.NotEmpty(t, info.NextCursor)

	rest, info, err := svc.ListPage(ctx, ListFilter{}, pagination.Pagination{Limit: 3, Cursor: info.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.False(t, info.HasMore)

	seen := make(map[string]bool)
	for _, p := range append(first, rest...) {
		require.False(t, seen[p.UTR], "no row may appear on both pages")
		seen[p.UTR] = true
	}

	_, _, err = svc.ListPage(ctx, ListFilter{}, pagination.Pagination{Cursor: "not-base64!"})
	require.Error(t, err)
}

func TestListLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, utr := range []string{"UTR001", "UTR002", "UTR003"} {
		_, err := svc.Record(ctx, Record{Mod: "Ignis mod", Plan: "1 Day", Amount: 150, UTR: utr, Status: StatusVerified})
		require.NoError(t, err)
	}

	out, err := svc.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
}
