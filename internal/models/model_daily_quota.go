package models

import "time"

// DailyQuota is the per-user, per-day question consumption counter.
//
// Exactly one row exists per (user_id, date); the composite unique index makes
// concurrent lazy creation race-safe (the loser re-reads the winner's row).
// QuestionsLimit is a snapshot of the plan limit at creation time, so a mid-day
// plan change never alters an existing row.
type DailyQuota struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_daily_quota_user_date" json:"user_id"`
	// Date is the quota day truncated to UTC midnight.
	Date           time.Time `gorm:"column:date;not null;uniqueIndex:idx_daily_quota_user_date" json:"date"`
	QuestionsUsed  int       `gorm:"column:questions_used;not null;default:0" json:"questions_used"`
	QuestionsLimit int       `gorm:"column:questions_limit;not null" json:"questions_limit"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (DailyQuota) TableName() string {
	return "daily_quotas"
}

func (q *DailyQuota) Exhausted() bool {
	return q != nil && q.QuestionsUsed >= q.QuestionsLimit
}

func (q *DailyQuota) Remaining() int {
	if q == nil {
		return 0
	}
	if r := q.QuestionsLimit - q.QuestionsUsed; r > 0 {
		return r
	}
	return 0
}
