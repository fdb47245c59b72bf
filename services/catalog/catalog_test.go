package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	plans := c.Plans()
	require.Len(t, plans, 6)
	require.Equal(t, Plan{Duration: "1 Day", Price: 150}, plans[0])
	require.Equal(t, Plan{Duration: "2 Month", Price: 1200}, plans[5])

	mods := c.Mods()
	require.Len(t, mods, 5)
	for _, m := range mods {
		if m.Status == ModAvailable {
			require.NotEmpty(t, m.Description, m.Name)
		}
	}

	kristal, ok := c.ModByName("Kristal mod")
	require.True(t, ok)
	require.Equal(t, ModComingSoon, kristal.Status)
}

func TestPlanByDuration(t *testing.T) {
	c := Default()

	p, ok := c.PlanByDuration("3 Day")
	require.True(t, ok)
	require.Equal(t, int64(300), p.Price)

	_, ok = c.PlanByDuration("3 day")
	require.False(t, ok, "plan lookup is exact-match")
}

func TestPlanRank(t *testing.T) {
	c := Default()

	require.Equal(t, 0, c.PlanRank("1 Day"))
	require.Equal(t, 4, c.PlanRank("1 Month"))
	require.Equal(t, len(c.Plans()), c.PlanRank("Lifetime"))
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := Default()

	c.Plans()[0].Price = 1
	p, _ := c.PlanByDuration("1 Day")
	require.Equal(t, int64(150), p.Price)
}
