package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/epetitpas/aischool/pkg/types"
)

// User is the local profile for an identity-provider account.
// The primary key mirrors the provider's user id so tokens map directly to rows.
type User struct {
	ID     string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email  string              `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Name   string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Role   types.Role          `gorm:"column:role;type:varchar(32);not null;default:'USER'" json:"role"`
	Status types.AccountStatus `gorm:"column:status;type:varchar(32);not null;default:'PENDING_VALIDATION'" json:"status"`
	// ProfileImage is an URL to the avatar, if the user uploaded one.
	ProfileImage *string `gorm:"column:profile_image;default:null" json:"profile_image"`
	// Preferences stores free-form client settings (language, theme, academic level).
	Preferences     datatypes.JSONMap `gorm:"column:preferences;type:jsonb;default:'{}'" json:"preferences"`
	EmailVerifiedAt *time.Time        `gorm:"column:email_verified_at;default:null" json:"email_verified_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Active() bool {
	return u != nil && u.Status == types.AccountStatusActive
}
