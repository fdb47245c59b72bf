package adminauth

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"modkeys-storefront/pkg/repository"
)

var Module = fx.Module("adminauth",
	fx.Provide(
		func(db *gorm.DB) repository.Repository[APIKey] {
			return repository.ProvideStore[APIKey](db)
		},
		NewService,
	),
)
