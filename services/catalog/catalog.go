package catalog

import (
	"go.uber.org/fx"
)

type ModStatus string

const (
	ModAvailable  ModStatus = "available"
	ModComingSoon ModStatus = "coming_soon"
)

// Plan is a named duration/price tier. Price is in whole rupees, fixed at
// catalog level; keys snapshot it at creation time.
type Plan struct {
	Duration string `json:"duration"`
	Price    int64  `json:"price"`
}

// Mod is a sellable product. Keys belong to exactly one mod.
type Mod struct {
	Name        string    `json:"name"`
	Status      ModStatus `json:"status"`
	Description string    `json:"description,omitempty"`
}

type Catalog struct {
	plans []Plan
	mods  []Mod
}

var Module = fx.Module("catalog", fx.Provide(Default))

// Default returns the fixed storefront catalog.
func Default() *Catalog {
	return &Catalog{
		plans: []Plan{
			{Duration: "1 Day", Price: 150},
			{Duration: "3 Day", Price: 300},
			{Duration: "7 Day", Price: 400},
			{Duration: "15 Day", Price: 500},
			{Duration: "1 Month", Price: 700},
			{Duration: "2 Month", Price: 1200},
		},
		mods: []Mod{
			{
				Name:        "Safe loader",
				Status:      ModAvailable,
				Description: "The safest option, designed for players who want to avoid detection and play without getting banned. Basic features but very reliable.",
			},
			{
				Name:        "Infinite mod",
				Status:      ModAvailable,
				Description: "A powerful mod with a lot of features, including unlimited resources and abilities. Less safe than the safe loader but offers a lot of power.",
			},
			{
				Name:        "Ignis mod",
				Status:      ModAvailable,
				Description: "A balanced mod with a good mix of powerful features and safety measures. A great all-rounder.",
			},
			{
				Name:        "Monster mod",
				Status:      ModAvailable,
				Description: "The most powerful and feature-rich mod, designed for aggressive players who want to dominate. Highest risk, biggest advantages.",
			},
			{Name: "Kristal mod", Status: ModComingSoon},
		},
	}
}

func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalog) Mods() []Mod {
	out := make([]Mod, len(c.mods))
	copy(out, c.mods)
	return out
}

func (c *Catalog) PlanByDuration(duration string) (Plan, bool) {
	for _, p := range c.plans {
		if p.Duration == duration {
			return p, true
		}
	}
	return Plan{}, false
}

func (c *Catalog) ModByName(name string) (Mod, bool) {
	for _, m := range c.mods {
		if m.Name == name {
			return m, true
		}
	}
	return Mod{}, false
}

// PlanRank is the display order of a plan, used for stable sorting in the
// admin views. Unknown plans sort last.
func (c *Catalog) PlanRank(duration string) int {
	for i, p := range c.plans {
		if p.Duration == duration {
			return i
		}
	}
	return len(c.plans)
}
