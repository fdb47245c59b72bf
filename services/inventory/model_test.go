package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func claimedKey(plan string, claimedAt time.Time) Key {
	utr := "UTR-TEST"
	return Key{
		ID:        "k1",
		Value:     "VALUE",
		Mod:       "Safe loader",
		Plan:      plan,
		Price:     300,
		Status:    StatusClaimed,
		UTR:       &utr,
		CreatedAt: claimedAt.Add(-time.Hour),
		ClaimedAt: &claimedAt,
	}
}

func TestClassifyAvailable(t *testing.T) {
	k := Key{Status: StatusAvailable, Plan: "3 Day"}

	class, err := k.Classify(time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, ClassAvailable, class)
}

func TestClassifyActiveUntilExpiry(t *testing.T) {
	claimedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	k := claimedKey("3 Day", claimedAt)

	// Just inside the window.
	class, err := k.Classify(claimedAt.Add(2*24*time.Hour + 23*time.Hour))
	require.NoError(t, err)
	require.Equal(t, ClassActive, class)

	// Just outside.
	class, err = k.Classify(claimedAt.Add(3*24*time.Hour + time.Hour))
	require.NoError(t, err)
	require.Equal(t, ClassExpired, class)
}

func TestExpiresAtMonthPlan(t *testing.T) {
	claimedAt := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	k := claimedKey("1 Month", claimedAt)

	expires, err := k.ExpiresAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 15, 9, 30, 0, 0, time.UTC), expires)
}

func TestClassifyMalformedPlanFailsLoudly(t *testing.T) {
	k := claimedKey("Lifetime", time.Now().UTC())

	_, err := k.Classify(time.Now().UTC())
	require.Error(t, err)
}
