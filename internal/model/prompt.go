package model

import "time"

// Prompt is the tutoring configuration bound to one access key.
type Prompt struct {
	ID                  uint                 `gorm:"primarykey" json:"id"`
	StudentEmail        string               `json:"student_email" gorm:"size:120;not null"`
	Topic               string               `json:"topic" gorm:"size:120;not null"`
	PromptContent       string               `json:"prompt_content" gorm:"type:text;not null"`
	AccessKey           string               `json:"access_key" gorm:"size:64;not null;uniqueIndex"`
	SessionStartTime    SessionTime          `json:"session_start_time"`
	PredefinedExercises []PredefinedExercise `json:"predefined_exercises,omitempty" gorm:"foreignKey:PromptID"`
	CreatedAt           time.Time            `json:"created_at"`
}
