package inventory

import "go.uber.org/fx"

var Module = fx.Module("inventory",
	fx.Provide(
		NewGormStore,
		NewService,
	),
)
