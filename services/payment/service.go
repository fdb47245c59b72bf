package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"modkeys-storefront/pkg/db/option"
	"modkeys-storefront/pkg/db/pagination"
	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/pkg/repository"
)

// Service records claim attempts for the admin audit trail. Recording never
// blocks a claim: callers treat failures here as log-and-continue.
type Service struct {
	repo repository.Repository[Payment]
	node *snowflake.Node
}

type ServiceParams struct {
	fx.In
	Repo repository.Repository[Payment]
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{repo: p.Repo, node: p.Node}
}

type Record struct {
	OrderCode string
	Mod       string
	Plan      string
	Amount    int64
	UTR       string
	Status    Status
	Reason    string
	KeyID     *string
	Metadata  map[string]any
}

func (s *Service) Record(ctx context.Context, rec Record) (*Payment, error) {
	p := &Payment{
		ID:        s.node.Generate().String(),
		OrderCode: rec.OrderCode,
		Mod:       rec.Mod,
		Plan:      rec.Plan,
		Amount:    rec.Amount,
		UTR:       rec.UTR,
		Status:    rec.Status,
		Reason:    rec.Reason,
		KeyID:     rec.KeyID,
		CreatedAt: time.Now().UTC(),
	}

	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			zap.L().Warn("payment metadata not serializable", zap.Error(err))
		} else {
			p.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errutil.Internal("record payment", errutil.WithErr(err))
	}
	return p, nil
}

type ListFilter struct {
	Status Status
	UTR    string
	Limit  int
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Payment, error) {
	query := &Payment{Status: f.Status, UTR: f.UTR}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "DESC"}),
		option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "DESC"}),
	}
	if f.Limit > 0 {
		opts = append(opts, option.WithLimit(f.Limit))
	}

	out, err := s.repo.Find(ctx, query, opts...)
	if err != nil {
		return nil, errutil.Internal("list payments", errutil.WithErr(err))
	}
	return out, nil
}

// ListPage is the cursor-paginated variant backing the admin audit view.
func (s *Service) ListPage(ctx context.Context, f ListFilter, page pagination.Pagination) ([]*Payment, *pagination.PageInfo, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 250 {
		limit = 250
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "DESC"}),
		option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "DESC"}),
		option.WithLimit(limit + 1),
	}

	if page.Cursor != "" {
		cur, err := pagination.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, nil, errutil.BadRequest("malformed cursor", errutil.WithErr(err))
		}
		ts, err := time.Parse(time.RFC3339Nano, cur.CreatedAt)
		if err != nil {
			return nil, nil, errutil.BadRequest("malformed cursor", errutil.WithErr(err))
		}
		opts = append(opts, option.WithWhere("(created_at, id) < (?, ?)", ts, cur.ID))
	}

	out, err := s.repo.Find(ctx, &Payment{Status: f.Status, UTR: f.UTR}, opts...)
	if err != nil {
		return nil, nil, errutil.Internal("list payments", errutil.WithErr(err))
	}

	out, info := pagination.BuildCursorPageInfo(out, limit, func(p *Payment) string {
		c, err := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
			ID:        p.ID,
		})
		if err != nil {
			return ""
		}
		return c
	})
	return out, info, nil
}
