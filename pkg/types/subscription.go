package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
)

// PlanFeatures are the entitlements granted by a subscription plan.
type PlanFeatures struct {
	DailyQuestionsLimit int  `json:"daily_questions_limit"`
	CanGenerateQuizzes  bool `json:"can_generate_quizzes"`
	CanExportFiles      bool `json:"can_export_files"`
	HasAdvancedStats    bool `json:"has_advanced_stats"`
}

// SubscriptionInfo is the user-facing view of an active subscription.
type SubscriptionInfo struct {
	ID        string             `json:"id"`
	PlanName  string             `json:"plan_name"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   *time.Time         `json:"end_date,omitempty"`
	AutoRenew bool               `json:"auto_renew"`
	Features  PlanFeatures       `json:"features"`
}
