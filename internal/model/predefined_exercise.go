package model

import "time"

type PredefinedExercise struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	PromptID     uint      `json:"prompt_id" gorm:"not null;index"`
	ExerciseText string    `json:"exercise_text" gorm:"type:text;not null"`
	OrderInList  int       `json:"order_in_list" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
