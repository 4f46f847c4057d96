package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/tutorkeys/config"
	_ "github.com/lshigami/tutorkeys/docs" // Swagger docs
	adminctrl "github.com/lshigami/tutorkeys/internal/controller/admin"
	userctrl "github.com/lshigami/tutorkeys/internal/controller/user"
	"github.com/lshigami/tutorkeys/internal/middleware"
	"github.com/lshigami/tutorkeys/internal/web"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const sessionName = "tutorkeys_session"

// NewEngine builds the gin engine with templates, the admin cookie session
// and the shared middleware stack.
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}

// Register mounts every student, admin and health route.
func Register(
	r *gin.Engine,
	student *userctrl.StudentController,
	exercise *userctrl.ExerciseController,
	admin *adminctrl.AdminController,
	db *gorm.DB,
) {
	r.GET("/", student.Index)
	r.POST("/", student.EnterAccessKey)
	r.GET("/chat/:access_key", student.ChatPage)
	r.POST("/api/chat", student.Chat)
	r.GET("/check_access/:key", student.CheckAccess)
	r.GET("/solve/:key", student.Solve)
	r.GET("/history/:key", student.History)
	r.POST("/generate_exercise", exercise.GenerateExercise)
	r.POST("/submit_solution", exercise.SubmitSolution)

	r.GET("/admin", admin.Dashboard)
	r.GET("/admin/login", admin.LoginForm)
	r.POST("/admin/login", admin.Login)
	r.GET("/admin/logout", admin.Logout)

	protected := r.Group("/", middleware.RequireAdmin())
	{
		protected.GET("/admin/create_prompt", admin.CreatePromptForm)
		protected.POST("/admin/create_prompt", admin.CreatePrompt)
		protected.POST("/api/v1/admin/prompts", admin.CreatePromptAPI)
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Error().Err(err).Msg("Health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
