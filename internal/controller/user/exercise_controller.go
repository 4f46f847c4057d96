package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/service"
	"github.com/rs/zerolog/log"
)

type ExerciseController struct {
	exerciseService service.ExerciseService
}

func NewExerciseController(es service.ExerciseService) *ExerciseController {
	return &ExerciseController{exerciseService: es}
}

// GenerateExercise godoc
// @Summary Generate a new exercise
// @Description Asks the language model for an exercise on the prompt's topic and appends it to the prompt's exercise list.
// @Tags Student
// @Accept json
// @Produce json
// @Param request body dto.GenerateExerciseRequestDTO true "Access key and prompt id"
// @Success 200 {object} dto.GenerateExerciseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 404 {object} dto.ErrorResponse "Access key and prompt id do not match"
// @Failure 500 {object} dto.ErrorResponse "Model or storage failure"
// @Router /generate_exercise [post]
func (c *ExerciseController) GenerateExercise(ctx *gin.Context) {
	var req dto.GenerateExerciseRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Faltan datos", Details: []string{err.Error()}})
		return
	}

	resp, err := c.exerciseService.GenerateExercise(ctx.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Faltan datos"})
	case errors.Is(err, service.ErrPromptNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Clave de acceso inválida"})
	case err != nil:
		log.Error().Err(err).Uint("promptID", req.PromptID).Msg("GenerateExercise: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error al generar ejercicio"})
	default:
		ctx.JSON(http.StatusOK, resp)
	}
}

// SubmitSolution godoc
// @Summary Record a student's solution
// @Description Appends the exercise and solution to the key's history.
// @Tags Student
// @Accept json
// @Produce json
// @Param request body dto.SubmitSolutionRequestDTO true "Solution"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 404 {object} dto.ErrorResponse "Unknown access key"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /submit_solution [post]
func (c *ExerciseController) SubmitSolution(ctx *gin.Context) {
	var req dto.SubmitSolutionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Datos incompletos", Details: []string{err.Error()}})
		return
	}

	err := c.exerciseService.SubmitSolution(ctx.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Datos incompletos"})
	case errors.Is(err, service.ErrPromptNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Clave de acceso inválida"})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "No se pudo guardar la solución"})
	default:
		ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
	}
}
