package models

import (
	"time"

	"github.com/epetitpas/aischool/pkg/types"
)

// RevisionSheet is a study document built from a user's questions.
// Content is the rendered markdown; file rendering happens downstream and fills
// FilePath when the export is produced.
type RevisionSheet struct {
	ID           string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string             `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title        string             `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Subject      string             `gorm:"column:subject;type:varchar(128);not null" json:"subject"`
	GradeLevel   string             `gorm:"column:grade_level;type:varchar(64);not null" json:"grade_level"`
	Content      string             `gorm:"column:content;type:text;not null" json:"content"`
	ExportFormat types.ExportFormat `gorm:"column:export_format;type:varchar(16);not null;default:'PDF'" json:"export_format"`
	FilePath     *string            `gorm:"column:file_path;default:null" json:"file_path"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (RevisionSheet) TableName() string {
	return "revision_sheets"
}
