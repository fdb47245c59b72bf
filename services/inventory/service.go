package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/services/catalog"
)

// Service carries the operator-facing inventory operations: bulk key
// creation, deletion, and the classified views behind the admin dashboard.
type Service struct {
	store Store
	cat   *catalog.Catalog
	node  *snowflake.Node
}

type ServiceParams struct {
	fx.In
	Store   Store
	Catalog *catalog.Catalog
	Node    *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		store: p.Store,
		cat:   p.Catalog,
		node:  p.Node,
	}
}

// BulkCreate adds one Available key per raw value, all for the same
// (mod, plan) at the current catalog price. The whole batch is rejected on
// the first value that already exists.
func (s *Service) BulkCreate(ctx context.Context, mod, plan string, values []string) ([]Key, error) {
	m, ok := s.cat.ModByName(mod)
	if !ok {
		return nil, errutil.BadRequest(fmt.Sprintf("unknown mod %q", mod))
	}
	if m.Status != catalog.ModAvailable {
		return nil, errutil.BadRequest(fmt.Sprintf("mod %q is not open for sale", mod))
	}

	p, ok := s.cat.PlanByDuration(plan)
	if !ok {
		return nil, errutil.BadRequest(fmt.Sprintf("unknown plan %q", plan))
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return nil, errutil.ValidationFailed("at least one key value is required")
	}

	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(snap.Keys))
	for _, k := range snap.Keys {
		existing[k.Value] = struct{}{}
	}

	now := time.Now().UTC()
	created := make([]Key, 0, len(cleaned))
	for _, value := range cleaned {
		if _, dup := existing[value]; dup {
			return nil, errutil.Conflict(fmt.Sprintf("key %q already exists", value))
		}
		existing[value] = struct{}{}

		created = append(created, Key{
			ID:        s.node.Generate().String(),
			Value:     value,
			Mod:       m.Name,
			Plan:      p.Duration,
			Price:     p.Price,
			Status:    StatusAvailable,
			CreatedAt: now,
		})
	}

	if err := s.store.SaveAll(ctx, append(snap.Keys, created...), snap.Version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, errutil.PreconditionLost("inventory changed while creating keys, retry the batch")
		}
		return nil, err
	}

	zap.L().Info("keys created",
		zap.String("mod", m.Name),
		zap.String("plan", p.Duration),
		zap.Int("count", len(created)),
	)

	return created, nil
}

// Delete removes a key outright. There is no soft delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	remaining := make([]Key, 0, len(snap.Keys))
	found := false
	for _, k := range snap.Keys {
		if k.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, k)
	}

	if !found {
		return errutil.NotFound(fmt.Sprintf("key %s not found", id))
	}

	if err := s.store.SaveAll(ctx, remaining, snap.Version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return errutil.PreconditionLost("inventory changed while deleting, retry")
		}
		return err
	}

	return nil
}

// ClassifiedKey pairs a key with its view-time classification.
type ClassifiedKey struct {
	Key
	Classification Classification `json:"classification"`
}

// List returns the inventory grouped by plan tier with classifications
// attached, optionally filtered by mod.
func (s *Service) List(ctx context.Context, mod string) ([]ClassifiedKey, error) {
	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]ClassifiedKey, 0, len(snap.Keys))
	for _, k := range snap.Keys {
		if mod != "" && k.Mod != mod {
			continue
		}
		class, err := k.Classify(now)
		if err != nil {
			return nil, errutil.Internal(fmt.Sprintf("key %s has malformed plan", k.ID), errutil.WithErr(err))
		}
		out = append(out, ClassifiedKey{Key: k, Classification: class})
	}

	// Dashboard rows group by plan tier; within a tier the store's FIFO
	// order holds.
	sort.SliceStable(out, func(i, j int) bool {
		return s.cat.PlanRank(out[i].Plan) < s.cat.PlanRank(out[j].Plan)
	})

	return out, nil
}

type PlanStats struct {
	Duration  string `json:"duration"`
	Price     int64  `json:"price"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
	Claimed   int    `json:"claimed"`
}

type ModSales struct {
	Name     string `json:"name"`
	KeysSold int    `json:"keys_sold"`
	Revenue  int64  `json:"revenue"`
}

type Stats struct {
	TotalKeys     int         `json:"total_keys"`
	Available     int         `json:"available"`
	ActiveClaimed int         `json:"active_claimed"`
	Expired       int         `json:"expired"`
	TotalBalance  int64       `json:"total_balance"`
	ByPlan        []PlanStats `json:"by_plan"`
	SalesByMod    []ModSales  `json:"sales_by_mod"`
}

// Stats computes the admin dashboard numbers. TotalBalance sums the price of
// claimed keys that are still active; SalesByMod counts every claimed key
// regardless of expiry.
func (s *Service) Stats(ctx context.Context, mod string) (*Stats, error) {
	classified, err := s.List(ctx, mod)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalKeys: len(classified)}

	byPlan := make(map[string]*PlanStats)
	for _, p := range s.cat.Plans() {
		ps := &PlanStats{Duration: p.Duration, Price: p.Price}
		byPlan[p.Duration] = ps
		stats.ByPlan = append(stats.ByPlan, PlanStats{Duration: p.Duration, Price: p.Price})
	}

	sales := make(map[string]*ModSales)
	for _, m := range s.cat.Mods() {
		sales[m.Name] = &ModSales{Name: m.Name}
	}

	for _, k := range classified {
		if ps, ok := byPlan[k.Plan]; ok {
			ps.Total++
			switch k.Classification {
			case ClassAvailable:
				ps.Available++
			default:
				ps.Claimed++
			}
		}

		switch k.Classification {
		case ClassAvailable:
			stats.Available++
		case ClassActive:
			stats.ActiveClaimed++
			stats.TotalBalance += k.Price
		case ClassExpired:
			stats.Expired++
		}

		if k.Status == StatusClaimed {
			if ms, ok := sales[k.Mod]; ok {
				ms.KeysSold++
				ms.Revenue += k.Price
			}
		}
	}

	for i := range stats.ByPlan {
		if ps, ok := byPlan[stats.ByPlan[i].Duration]; ok {
			stats.ByPlan[i] = *ps
		}
	}
	for _, m := range s.cat.Mods() {
		stats.SalesByMod = append(stats.SalesByMod, *sales[m.Name])
	}

	return stats, nil
}

// Lookup finds a claimed key either by its value or by the UTR it was
// claimed with. Unclaimed keys are never revealed.
func (s *Service) Lookup(ctx context.Context, term string) (*ClassifiedKey, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errutil.ValidationFailed("a key value or UTR is required")
	}

	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, k := range snap.Keys {
		if k.Status != StatusClaimed {
			continue
		}
		if k.Value == term || (k.UTR != nil && *k.UTR == term) {
			class, err := k.Classify(now)
			if err != nil {
				return nil, errutil.Internal(fmt.Sprintf("key %s has malformed plan", k.ID), errutil.WithErr(err))
			}
			return &ClassifiedKey{Key: k, Classification: class}, nil
		}
	}

	return nil, errutil.NotFound("no claimed key matches that value or UTR")
}

// Availability is the storefront view: how many unclaimed keys exist per
// sellable (mod, plan) pair.
type Availability struct {
	Mod       string `json:"mod"`
	Plan      string `json:"plan"`
	Price     int64  `json:"price"`
	Available int    `json:"available"`
}

func (s *Service) Availability(ctx context.Context) ([]Availability, error) {
	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, k := range snap.Keys {
		if k.Status == StatusAvailable {
			counts[k.Mod+"\x00"+k.Plan]++
		}
	}

	var out []Availability
	for _, m := range s.cat.Mods() {
		if m.Status != catalog.ModAvailable {
			continue
		}
		for _, p := range s.cat.Plans() {
			out = append(out, Availability{
				Mod:       m.Name,
				Plan:      p.Duration,
				Price:     p.Price,
				Available: counts[m.Name+"\x00"+p.Duration],
			})
		}
	}

	return out, nil
}
