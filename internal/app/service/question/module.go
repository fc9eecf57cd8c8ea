package question

import "go.uber.org/fx"

// Module exposes the question workflow via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
