package dto

// PromptCreateDTO is the admin create-prompt payload, accepted both as an
// HTML form and as JSON. ExercisesText holds one exercise per line.
type PromptCreateDTO struct {
	StudentEmail  string `json:"student_email" form:"student_email" binding:"required,email,max=120"`
	Topic         string `json:"topic" form:"topic" binding:"required,max=120"`
	PromptContent string `json:"prompt_content" form:"prompt_content" binding:"required"`
	ExercisesText string `json:"exercises_text" form:"exercises_text"`
}

type AdminLoginDTO struct {
	Password string `form:"password" binding:"required"`
}
