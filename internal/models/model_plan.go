package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionPlan is a subscription tier. Plans are seeded at provisioning
// time and are never deleted while subscriptions reference them.
type SubscriptionPlan struct {
	ID   string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);not null;uniqueIndex" json:"name"`
	// Price is the monthly price in EUR.
	Price               float64 `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	DailyQuestionsLimit int     `gorm:"column:daily_questions_limit;not null" json:"daily_questions_limit"`
	CanGenerateQuizzes  bool    `gorm:"column:can_generate_quizzes;not null;default:false" json:"can_generate_quizzes"`
	CanExportFiles      bool    `gorm:"column:can_export_files;not null;default:false" json:"can_export_files"`
	HasAdvancedStats    bool    `gorm:"column:has_advanced_stats;not null;default:false" json:"has_advanced_stats"`
	// Features stores free-form tier metadata (description, support level, export formats).
	Features  datatypes.JSONMap `gorm:"column:features;type:jsonb;default:'{}'" json:"features"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
