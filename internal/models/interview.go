package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Interview is a persisted interview attempt. Score, Duration and CompletedAt are set once, at completion.
type Interview struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	UserID      uint                `gorm:"not null;index" json:"user_id"`
	Role        string              `gorm:"size:100;not null" json:"role"`
	Questions   datatypes.JSON      `json:"questions"`
	Score       *int                `json:"score"`
	Duration    *int                `json:"duration"`
	CompletedAt *time.Time          `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
	Responses   []InterviewResponse `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"responses,omitempty"`
}

// IsCompleted reports whether the interview has been finalized.
func (i Interview) IsCompleted() bool {
	return i.CompletedAt != nil
}

// QuestionList decodes the stored question list. Malformed data yields nil.
func (i Interview) QuestionList() []string {
	if len(i.Questions) == 0 {
		return nil
	}
	var questions []string
	if err := json.Unmarshal(i.Questions, &questions); err != nil {
		return nil
	}
	return questions
}

// InterviewResponse is one answered question of an interview.
type InterviewResponse struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InterviewID uint      `gorm:"not null;index" json:"interview_id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text;not null" json:"answer"`
	Feedback    string    `gorm:"type:text" json:"feedback"`
	Score       *int      `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}
