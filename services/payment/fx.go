package payment

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modkeys-storefront/pkg/repository"
)

var Module = fx.Module("payment",
	fx.Provide(
		func(db *gorm.DB) repository.Repository[Payment] {
			return repository.ProvideStore[Payment](db)
		},
		NewService,
	),
)
