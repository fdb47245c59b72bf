package gen

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("snowflake",
	fx.Provide(NewNode),
)

// NewNode builds the process-wide snowflake node. Node ID 1 is fine for a
// single-instance storefront; multi-instance deployments override it.
func NewNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
