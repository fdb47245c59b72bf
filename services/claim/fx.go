package claim

import (
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"modkeys-storefront/pkg/sequence"
	"modkeys-storefront/services/payment"
)

var Module = fx.Module("claim",
	fx.Provide(
		func(s *payment.Service) PaymentRecorder { return s },
		func(g sequence.Generator) OrderCoder { return g },
		func(c *asynq.Client) TaskEnqueuer { return c },
		NewService,
	),
)
