package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/tutorkeys/internal/controller"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	msgEnterAccessKey   = "Por favor, ingresa una clave de acceso."
	msgInvalidAccessKey = "Clave de acceso no válida. Inténtalo de nuevo."
)

type StudentController struct {
	promptService   service.PromptService
	chatService     service.ChatService
	exerciseService service.ExerciseService
}

func NewStudentController(ps service.PromptService, cs service.ChatService, es service.ExerciseService) *StudentController {
	return &StudentController{
		promptService:   ps,
		chatService:     cs,
		exerciseService: es,
	}
}

// Index renders the access-key form.
func (c *StudentController) Index(ctx *gin.Context) {
	controller.Render(ctx, http.StatusOK, "index.html", nil)
}

// EnterAccessKey validates the submitted key and opens its chat.
func (c *StudentController) EnterAccessKey(ctx *gin.Context) {
	key := strings.TrimSpace(ctx.PostForm("access_key"))
	if key == "" {
		controller.Render(ctx, http.StatusOK, "index.html", gin.H{"Error": msgEnterAccessKey})
		return
	}
	if _, err := c.promptService.GetByAccessKey(ctx.Request.Context(), key); err != nil {
		if !errors.Is(err, service.ErrPromptNotFound) {
			log.Error().Err(err).Msg("EnterAccessKey: lookup failed")
		}
		controller.Render(ctx, http.StatusOK, "index.html", gin.H{"Error": msgInvalidAccessKey})
		return
	}
	ctx.Redirect(http.StatusFound, "/chat/"+key)
}

// ChatPage renders the chat view with the prompt's exercises and session window.
func (c *StudentController) ChatPage(ctx *gin.Context) {
	view, err := c.promptService.ChatView(ctx.Request.Context(), ctx.Param("access_key"))
	if err != nil {
		if !errors.Is(err, service.ErrPromptNotFound) {
			log.Error().Err(err).Msg("ChatPage: failed to load view")
		}
		controller.AddFlash(ctx, controller.FlashDanger, msgInvalidAccessKey)
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	controller.Render(ctx, http.StatusOK, "chat.html", gin.H{"Title": view.Topic, "View": view})
}

// Chat godoc
// @Summary Send a chat turn to the tutor
// @Description Relays the student's message to the language model using the prompt bound to the access key. Unknown keys, expired sessions and model failures are reported in ai_response with status 200.
// @Tags Student
// @Accept json
// @Produce json
// @Param chat body dto.ChatRequestDTO true "Chat turn"
// @Success 200 {object} dto.ChatResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Router /api/chat [post]
func (c *StudentController) Chat(ctx *gin.Context) {
	var req dto.ChatRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Chat: invalid request body")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, c.chatService.Chat(ctx.Request.Context(), req))
}

// CheckAccess godoc
// @Summary Check an access key
// @Description Reports whether the key exists and, if so, who it belongs to and when its session started.
// @Tags Student
// @Produce json
// @Param key path string true "Access key"
// @Success 200 {object} dto.AccessCheckDTO
// @Failure 404 {object} dto.AccessCheckDTO "Unknown key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check_access/{key} [get]
func (c *StudentController) CheckAccess(ctx *gin.Context) {
	resp, err := c.promptService.CheckAccess(ctx.Request.Context(), ctx.Param("key"))
	if errors.Is(err, service.ErrPromptNotFound) {
		ctx.JSON(http.StatusNotFound, dto.AccessCheckDTO{Exists: false})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("CheckAccess: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to check access key"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Solve renders the first exercise of the key's prompt with a solution form.
func (c *StudentController) Solve(ctx *gin.Context) {
	view, err := c.exerciseService.SolveView(ctx.Request.Context(), ctx.Param("key"))
	switch {
	case errors.Is(err, service.ErrPromptNotFound):
		ctx.String(http.StatusNotFound, "Clave inválida")
		return
	case errors.Is(err, service.ErrNoExercise):
		ctx.String(http.StatusNotFound, "No hay ejercicio generado aún.")
		return
	case err != nil:
		log.Error().Err(err).Msg("Solve: failed to load exercise")
		ctx.String(http.StatusInternalServerError, "Error interno")
		return
	}
	controller.Render(ctx, http.StatusOK, "solve.html", gin.H{"Title": view.Topic, "View": view})
}

// History renders everything logged under the key.
func (c *StudentController) History(ctx *gin.Context) {
	view, err := c.exerciseService.History(ctx.Request.Context(), ctx.Param("key"))
	if errors.Is(err, service.ErrPromptNotFound) {
		ctx.String(http.StatusNotFound, "Clave inválida")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("History: failed to load entries")
		ctx.String(http.StatusInternalServerError, "Error interno")
		return
	}
	controller.Render(ctx, http.StatusOK, "history.html", gin.H{"Title": "Historial", "View": view})
}
