package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ChatResponseDTO struct {
	AIResponse string `json:"ai_response"`
}

type GenerateExerciseResponseDTO struct {
	Success    bool   `json:"success"`
	Exercise   string `json:"exercise"`
	ExerciseID uint   `json:"exercise_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// AccessCheckDTO answers GET /check_access/{key}.
type AccessCheckDTO struct {
	Exists           bool    `json:"exists"`
	StudentEmail     string  `json:"student_email,omitempty"`
	Topic            string  `json:"topic,omitempty"`
	SessionStartTime *string `json:"session_start_time,omitempty"`
}

type ExerciseDTO struct {
	ID           uint   `json:"id"`
	ExerciseText string `json:"exercise_text"`
	OrderInList  int    `json:"order_in_list"`
}

type HistoryEntryDTO struct {
	ID           uint      `json:"id"`
	ExerciseText string    `json:"exercise_text"`
	SolutionText string    `json:"solution_text"`
	ExerciseType *string   `json:"exercise_type,omitempty"`
	Difficulty   *string   `json:"difficulty,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChatViewDTO is everything the chat page renders for one access key.
type ChatViewDTO struct {
	AccessKey        string
	PromptID         uint
	Topic            string
	Exercises        []ExerciseDTO
	SessionStartTime string
	SessionEndTime   string
	RemainingSeconds int
	Expired          bool
}

// PromptCreatedDTO reports the outcome of a create-prompt action.
type PromptCreatedDTO struct {
	ID            uint      `json:"id"`
	AccessKey     string    `json:"access_key"`
	StudentEmail  string    `json:"student_email"`
	Topic         string    `json:"topic"`
	ExerciseCount int       `json:"exercise_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type PromptSummaryDTO struct {
	ID           uint      `json:"id"`
	AccessKey    string    `json:"access_key"`
	StudentEmail string    `json:"student_email"`
	Topic        string    `json:"topic"`
	CreatedAt    time.Time `json:"created_at"`
}

type SolveViewDTO struct {
	AccessKey    string
	Topic        string
	ExerciseID   uint
	ExerciseText string
	OrderInList  int
}

type HistoryViewDTO struct {
	AccessKey string
	Entries   []HistoryEntryDTO
}
