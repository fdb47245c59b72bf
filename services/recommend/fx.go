package recommend

import "go.uber.org/fx"

var Module = fx.Module("recommend",
	fx.Provide(NewGemini),
)
