package ai

import "go.uber.org/fx"

// Module exposes the answer generator via Fx.
var Module = fx.Options(
	fx.Provide(NewOpenAIGenerator),
)
