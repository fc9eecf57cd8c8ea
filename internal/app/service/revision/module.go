package revision

import "go.uber.org/fx"

// Module exposes the revision sheet service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
