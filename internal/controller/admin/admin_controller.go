package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/tutorkeys/internal/controller"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/middleware"
	"github.com/lshigami/tutorkeys/internal/service"
	"github.com/rs/zerolog/log"
)

const dashboardLimit = 50

type AdminController struct {
	promptService service.PromptService
	authService   service.AdminAuthService
}

func NewAdminController(ps service.PromptService, as service.AdminAuthService) *AdminController {
	return &AdminController{
		promptService: ps,
		authService:   as,
	}
}

// Dashboard lists recent prompts, or shows the login form to anonymous visitors.
func (c *AdminController) Dashboard(ctx *gin.Context) {
	if !middleware.IsAdmin(ctx) {
		controller.Render(ctx, http.StatusOK, "admin_login.html", gin.H{"Title": "Administración"})
		return
	}
	data := gin.H{"Title": "Administración"}
	prompts, err := c.promptService.ListRecent(ctx.Request.Context(), dashboardLimit)
	if err != nil {
		log.Error().Err(err).Msg("Admin Dashboard: failed to list prompts")
		data["Flashes"] = []controller.Flash{{Category: controller.FlashDanger, Message: "No se pudieron cargar los prompts."}}
	}
	data["Prompts"] = prompts
	controller.Render(ctx, http.StatusOK, "admin_dashboard.html", data)
}

func (c *AdminController) LoginForm(ctx *gin.Context) {
	controller.Render(ctx, http.StatusOK, "admin_login.html", gin.H{"Title": "Administración"})
}

func (c *AdminController) Login(ctx *gin.Context) {
	var form dto.AdminLoginDTO
	if err := ctx.ShouldBind(&form); err != nil || !c.authService.Authenticate(form.Password) {
		if !c.authService.Enabled() {
			log.Warn().Msg("Admin login attempted but ADMIN_PASSWORD is not configured")
		}
		controller.AddFlash(ctx, controller.FlashDanger, "Contraseña incorrecta.")
		ctx.Redirect(http.StatusFound, "/admin/login")
		return
	}

	session := sessions.Default(ctx)
	session.Set(middleware.AdminSessionKey, true)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Msg("Admin Login: failed to save session")
		ctx.String(http.StatusInternalServerError, "Failed to save session")
		return
	}
	controller.AddFlash(ctx, controller.FlashSuccess, "Inicio de sesión exitoso.")
	ctx.Redirect(http.StatusFound, "/admin/create_prompt")
}

func (c *AdminController) Logout(ctx *gin.Context) {
	session := sessions.Default(ctx)
	session.Delete(middleware.AdminSessionKey)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Msg("Admin Logout: failed to save session")
	}
	controller.AddFlash(ctx, controller.FlashInfo, "Has cerrado la sesión.")
	ctx.Redirect(http.StatusFound, "/admin/login")
}

func (c *AdminController) CreatePromptForm(ctx *gin.Context) {
	controller.Render(ctx, http.StatusOK, "admin_create.html", gin.H{"Title": "Crear prompt", "Form": dto.PromptCreateDTO{}})
}

// CreatePrompt handles the HTML form. Failures re-render the form with the
// submitted values kept.
func (c *AdminController) CreatePrompt(ctx *gin.Context) {
	var form dto.PromptCreateDTO
	if err := ctx.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Msg("Admin CreatePrompt: invalid form")
		c.rerender(ctx, form, "Todos los campos marcados con * son obligatorios.")
		return
	}

	created, err := c.promptService.CreatePrompt(ctx.Request.Context(), form)
	if errors.Is(err, service.ErrMissingFields) {
		c.rerender(ctx, form, "Todos los campos marcados con * son obligatorios.")
		return
	}
	if err != nil {
		c.rerender(ctx, form, "Error al crear el prompt. Por favor, intenta nuevamente.")
		return
	}

	msg := fmt.Sprintf("Prompt creado exitosamente. Clave de acceso: %s", created.AccessKey)
	if created.ExerciseCount > 0 {
		msg += fmt.Sprintf(". Se agregaron %d ejercicios predefinidos.", created.ExerciseCount)
	}
	controller.AddFlash(ctx, controller.FlashSuccess, msg)
	ctx.Redirect(http.StatusFound, "/admin/create_prompt")
}

func (c *AdminController) rerender(ctx *gin.Context, form dto.PromptCreateDTO, message string) {
	controller.Render(ctx, http.StatusOK, "admin_create.html", gin.H{
		"Title":   "Crear prompt",
		"Form":    form,
		"Flashes": []controller.Flash{{Category: controller.FlashDanger, Message: message}},
	})
}

// CreatePromptAPI godoc
// @Summary (Admin) Create a prompt
// @Description Stores a tutoring prompt with optional newline-separated exercises and issues a unique access key. Requires an admin session cookie.
// @Tags Admin - Prompts
// @Accept json
// @Produce json
// @Param prompt body dto.PromptCreateDTO true "Prompt data"
// @Success 201 {object} dto.PromptCreatedDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Admin login required"
// @Failure 500 {object} dto.ErrorResponse "Could not create the prompt"
// @Router /api/v1/admin/prompts [post]
func (c *AdminController) CreatePromptAPI(ctx *gin.Context) {
	var req dto.PromptCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreatePromptAPI: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.promptService.CreatePrompt(ctx.Request.Context(), req)
	if errors.Is(err, service.ErrMissingFields) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Required fields are missing"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not create the prompt"})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}
