package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	asynqtype "modkeys-storefront/pkg/asynq"
	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/services/catalog"
	"modkeys-storefront/services/inventory"
	"modkeys-storefront/services/payment"
	"modkeys-storefront/services/verifier"
)

// PaymentRecorder is the slice of the payment service the claim flow needs.
type PaymentRecorder interface {
	Record(ctx context.Context, rec payment.Record) (*payment.Payment, error)
}

// OrderCoder issues the human-readable code printed on the receipt.
type OrderCoder interface {
	NextOrderCode(ctx context.Context) (string, error)
}

// TaskEnqueuer pushes background work. Satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service runs the claim workflow: verify the payment once, then claim a key
// under optimistic concurrency, retrying only the claim transaction when the
// inventory version moves underneath us.
type Service struct {
	store      inventory.Store
	cat        *catalog.Catalog
	verifier   verifier.Verifier
	payments   PaymentRecorder
	orders     OrderCoder
	tasks      TaskEnqueuer
	upiID      string
	currency   string
	maxRetries int
}

type ServiceParams struct {
	fx.In

	Store    inventory.Store
	Catalog  *catalog.Catalog
	Verifier verifier.Verifier
	Payments PaymentRecorder
	Orders   OrderCoder
	Tasks    TaskEnqueuer
	Config   *config.Config
}

func NewService(p ServiceParams) *Service {
	retries := p.Config.Claim.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Service{
		store:      p.Store,
		cat:        p.Catalog,
		verifier:   p.Verifier,
		payments:   p.Payments,
		orders:     p.Orders,
		tasks:      p.Tasks,
		upiID:      p.Config.Payment.UpiID,
		currency:   p.Config.Payment.Currency,
		maxRetries: retries,
	}
}

func (s *Service) Attempt(ctx context.Context, req Request) (*Receipt, error) {
	plan, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	verdict, err := s.verifier.Verify(ctx, verifier.Input{
		Mod:        req.Mod,
		Plan:       req.Plan,
		Amount:     plan.Price,
		Currency:   s.currency,
		UpiID:      s.upiID,
		UTR:        req.UTRNumber,
		Screenshot: req.Screenshot,
		MimeType:   req.MimeType,
	})
	if err != nil {
		// A verifier failure is a payment that could not be verified, not
		// an infrastructure outage. Keep the shape distinct from store
		// errors so the buyer knows to resubmit the screenshot.
		if errutil.StatusOf(err) != errutil.StatusUnprocessable {
			err = errutil.Unprocessable("verification service error", errutil.WithErr(err))
		}
		return nil, err
	}

	if !verdict.Verified {
		reason := verdict.Reason
		if reason == "" {
			reason = "payment details could not be verified"
		}
		s.recordAttempt(ctx, req, plan.Price, payment.StatusRejected, reason, nil, "")
		return nil, errutil.Unprocessable(reason)
	}

	receipt, err := s.claimKey(ctx, req)
	if err != nil {
		return nil, err
	}

	orderCode := s.issueOrderCode(ctx)
	receipt.OrderCode = orderCode

	s.recordAttempt(ctx, req, plan.Price, payment.StatusVerified, "", &receipt.KeyID, orderCode)
	s.archiveScreenshot(ctx, req, orderCode)

	fields := []zap.Field{
		zap.String("mod", req.Mod),
		zap.String("plan", req.Plan),
		zap.String("order_code", orderCode),
		zap.String("key_id", receipt.KeyID),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	zap.L().Info("key claimed", fields...)

	return receipt, nil
}

// validate normalizes the request and pins the price to the catalog. The
// client-sent price must agree with the catalog so a tampered form cannot buy
// a plan at the wrong amount.
func (s *Service) validate(req *Request) (*catalog.Plan, error) {
	req.UTRNumber = strings.TrimSpace(req.UTRNumber)

	mod, ok := s.cat.ModByName(req.Mod)
	if !ok {
		return nil, errutil.BadRequest(fmt.Sprintf("unknown mod %q", req.Mod))
	}
	if mod.Status != catalog.ModAvailable {
		return nil, errutil.BadRequest(fmt.Sprintf("mod %q is not open for sale", req.Mod))
	}

	plan, ok := s.cat.PlanByDuration(req.Plan)
	if !ok {
		return nil, errutil.BadRequest(fmt.Sprintf("unknown plan %q", req.Plan))
	}
	if req.Price != 0 && req.Price != plan.Price {
		return nil, errutil.ValidationFailed(
			fmt.Sprintf("price %d does not match the %s plan", req.Price, plan.Duration))
	}

	if req.UTRNumber == "" {
		return nil, errutil.ValidationFailed("a UTR number is required")
	}
	if len(req.Screenshot) == 0 {
		return nil, errutil.ValidationFailed("a payment screenshot is required")
	}
	if !strings.HasPrefix(req.MimeType, "image/") {
		return nil, errutil.ValidationFailed("screenshot must be an image")
	}

	return &plan, nil
}

// claimKey runs the load, check, mutate, save cycle. Only this part
// retries on a version conflict; the payment is never re-verified.
func (s *Service) claimKey(ctx context.Context, req Request) (*Receipt, error) {
	var lastErr error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		snap, err := s.store.LoadAll(ctx)
		if err != nil {
			return nil, err
		}

		var chosen *inventory.Key
		for i := range snap.Keys {
			k := &snap.Keys[i]
			if k.Status == inventory.StatusClaimed && k.UTR != nil && *k.UTR == req.UTRNumber {
				return nil, errutil.Conflict("this UTR number has already been used to claim a key")
			}
			if chosen == nil && k.Status == inventory.StatusAvailable && k.Mod == req.Mod && k.Plan == req.Plan {
				chosen = k
			}
		}
		if chosen == nil {
			return nil, errutil.ResourceExhausted(
				fmt.Sprintf("no keys left for %s / %s", req.Mod, req.Plan))
		}

		now := time.Now().UTC()
		utr := req.UTRNumber
		chosen.Status = inventory.StatusClaimed
		chosen.UTR = &utr
		chosen.ClaimedAt = &now

		if err := s.store.SaveAll(ctx, snap.Keys, snap.Version); err != nil {
			if errors.Is(err, inventory.ErrVersionConflict) {
				lastErr = errutil.PreconditionLost("inventory changed while claiming, please retry")
				continue
			}
			return nil, err
		}

		expires, err := chosen.ExpiresAt()
		if err != nil {
			return nil, errutil.Internal("claimed key has malformed plan", errutil.WithErr(err))
		}

		return &Receipt{
			KeyID:     chosen.ID,
			Key:       chosen.Value,
			Mod:       chosen.Mod,
			Plan:      chosen.Plan,
			Price:     chosen.Price,
			UTR:       utr,
			ClaimedAt: now,
			ExpiresAt: expires,
		}, nil
	}

	return nil, lastErr
}

// issueOrderCode degrades gracefully: a claim without a pretty code is still
// a claim.
func (s *Service) issueOrderCode(ctx context.Context) string {
	code, err := s.orders.NextOrderCode(ctx)
	if err != nil {
		zap.L().Warn("order code generation failed", zap.Error(err))
		return ""
	}
	return code
}

func (s *Service) recordAttempt(ctx context.Context, req Request, amount int64, status payment.Status, reason string, keyID *string, orderCode string) {
	_, err := s.payments.Record(ctx, payment.Record{
		OrderCode: orderCode,
		Mod:       req.Mod,
		Plan:      req.Plan,
		Amount:    amount,
		UTR:       req.UTRNumber,
		Status:    status,
		Reason:    reason,
		KeyID:     keyID,
		Metadata: map[string]any{
			"mime_type":       req.MimeType,
			"screenshot_size": len(req.Screenshot),
		},
	})
	if err != nil {
		zap.L().Warn("payment record failed", zap.String("utr", req.UTRNumber), zap.Error(err))
	}
}

func (s *Service) archiveScreenshot(ctx context.Context, req Request, orderCode string) {
	payload, err := json.Marshal(asynqtype.ArchiveScreenshotPayload{
		OrderCode:  orderCode,
		UTR:        req.UTRNumber,
		MimeType:   req.MimeType,
		Screenshot: req.Screenshot,
	})
	if err != nil {
		zap.L().Warn("screenshot archive payload failed", zap.Error(err))
		return
	}

	task := asynq.NewTask(asynqtype.ArchiveScreenshotTask, payload)
	if _, err := s.tasks.EnqueueContext(ctx, task, asynq.Queue("low"), asynq.MaxRetry(5)); err != nil {
		zap.L().Warn("screenshot archive enqueue failed", zap.String("utr", req.UTRNumber), zap.Error(err))
	}
}
