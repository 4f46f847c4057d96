package model

import "time"

// ExerciseHistory is an append-only log row. AccessKey references Prompt
// by value only; there is no foreign key constraint.
type ExerciseHistory struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	AccessKey    string    `json:"access_key" gorm:"size:64;not null;index"`
	ExerciseText string    `json:"exercise_text" gorm:"type:text;not null"`
	SolutionText string    `json:"solution_text" gorm:"type:text;not null"`
	ExerciseType *string   `json:"exercise_type,omitempty" gorm:"size:120"`
	Difficulty   *string   `json:"difficulty,omitempty" gorm:"size:50"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

func (ExerciseHistory) TableName() string {
	return "exercise_history"
}
