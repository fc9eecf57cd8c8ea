package auth

import "go.uber.org/fx"

// Module exposes the token verifier via Fx.
var Module = fx.Options(
	fx.Provide(NewJWTVerifier),
)
