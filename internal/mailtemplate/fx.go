package mailtemplate

import "go.uber.org/fx"

var Module = fx.Module("mailtemplate",
	fx.Provide(NewBuilder),
)
