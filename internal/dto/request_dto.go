package dto

// Chat actions recognised by POST /api/chat.
const (
	ActionGetSolution    = "get_solution"
	ActionInitialMessage = "initial_message"
)

// ChatRequestDTO is one student chat turn.
type ChatRequestDTO struct {
	AccessKey   string `json:"access_key" binding:"required"`
	UserMessage string `json:"user_message" binding:"required"`
	Action      string `json:"action,omitempty"`
}

type GenerateExerciseRequestDTO struct {
	AccessKey string `json:"access_key" binding:"required"`
	PromptID  uint   `json:"prompt_id" binding:"required"`
}

type SubmitSolutionRequestDTO struct {
	AccessKey    string  `json:"access_key" binding:"required"`
	ExerciseText string  `json:"exercise_text" binding:"required"`
	SolutionText string  `json:"solution_text" binding:"required"`
	ExerciseType *string `json:"exercise_type,omitempty" binding:"omitempty,max=120"`
	Difficulty   *string `json:"difficulty,omitempty" binding:"omitempty,max=50"`
}
