package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionStep is one ordered step of an explanation.
type QuestionStep struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// QuizItem is one four-option comprehension question.
// CorrectAnswer is the zero-based index into Options.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// StepList and QuizList wrap the step/quiz arrays the way they are stored in
// the JSON columns, keeping the wire shape stable for clients.
type StepList struct {
	Steps []QuestionStep `json:"steps"`
}

type QuizList struct {
	Questions []QuizItem `json:"questions"`
}

// AIQuestion is a student question together with the generated answer.
// Deleted by explicit user/admin action only; deleting never refunds quota.
type AIQuestion struct {
	ID           string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string                       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Subject      string                       `gorm:"column:subject;type:varchar(128);not null" json:"subject"`
	GradeLevel   string                       `gorm:"column:grade_level;type:varchar(64);not null" json:"grade_level"`
	QuestionText string                       `gorm:"column:question_text;type:text;not null" json:"question_text"`
	AIResponse   string                       `gorm:"column:ai_response;type:text;not null" json:"ai_response"`
	Steps        datatypes.JSONType[StepList] `gorm:"column:steps;type:jsonb" json:"steps"`
	Quiz         datatypes.JSONType[QuizList] `gorm:"column:quiz;type:jsonb" json:"quiz"`
	QuestionType string                       `gorm:"column:question_type;type:varchar(32);not null;default:'explanation'" json:"question_type"`
	IsBookmarked bool                         `gorm:"column:is_bookmarked;not null;default:false" json:"is_bookmarked"`
	Tags         datatypes.JSONSlice[string]  `gorm:"column:tags;type:jsonb" json:"tags"`
	// Telemetry captured at generation time.
	TokensUsed     int       `gorm:"column:tokens_used;not null;default:0" json:"tokens_used"`
	ResponseTimeMs int64     `gorm:"column:response_time_ms;not null;default:0" json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (AIQuestion) TableName() string {
	return "ai_questions"
}
