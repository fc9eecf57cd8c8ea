package models

import (
	"time"

	"github.com/epetitpas/aischool/pkg/types"
)

// UserSubscription binds a user to a plan for a time range.
// Rows are never deleted; status transitions keep the history.
// At most one ACTIVE row per user is authoritative: when a data anomaly leaves
// several, the most recently created one wins (see subscription.Service).
type UserSubscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PlanID string                   `gorm:"column:plan_id;type:uuid;not null" json:"plan_id"`
	Plan   SubscriptionPlan         `gorm:"foreignKey:PlanID" json:"plan"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// StartDate is when the subscription took effect.
	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	// EndDate is set when the subscription is cancelled or expires.
	EndDate   *time.Time `gorm:"column:end_date;default:null" json:"end_date"`
	AutoRenew bool       `gorm:"column:auto_renew;not null;default:false" json:"auto_renew"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

func (s *UserSubscription) Active() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}
