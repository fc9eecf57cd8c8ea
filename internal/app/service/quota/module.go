package quota

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/app/service/subscription"
)

// Module exposes the quota ledger via Fx, wiring the subscription service as
// the limit resolver.
var Module = fx.Options(
	fx.Provide(func(db *gorm.DB, subs *subscription.Service, log *zap.SugaredLogger) *Ledger {
		return NewLedger(db, subs, log)
	}),
)
