package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/tutorkeys/config"
	"github.com/lshigami/tutorkeys/database"
	adminctrl "github.com/lshigami/tutorkeys/internal/controller/admin"
	userctrl "github.com/lshigami/tutorkeys/internal/controller/user"
	"github.com/lshigami/tutorkeys/internal/llm"
	"github.com/lshigami/tutorkeys/internal/repository"
	"github.com/lshigami/tutorkeys/internal/router"
	"github.com/lshigami/tutorkeys/internal/service"
	"github.com/lshigami/tutorkeys/internal/sessiongate"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// coreModule wires configuration, storage and services. It has no HTTP
// surface so the CLI commands can reuse it.
var coreModule = fx.Options(
	fx.Provide(
		config.NewConfig,
		newDatabase,
		newProvider,
		newGate,
	),

	// Repositories Layer
	fx.Provide(
		repository.NewPromptRepository,
		repository.NewExerciseRepository,
		repository.NewHistoryRepository,
	),

	// Services Layer
	fx.Provide(
		service.NewCompletionRelay,
		service.NewPromptService,
		service.NewChatService,
		service.NewExerciseService,
		service.NewAdminAuthService,
	),
)

var httpModule = fx.Options(
	fx.Provide(
		router.NewEngine,
		userctrl.NewStudentController,
		userctrl.NewExerciseController,
		adminctrl.NewAdminController,
	),
	fx.Invoke(AutoMigrateDB),
	fx.Invoke(RegisterRoutesAndStartServer),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func newProvider(lc fx.Lifecycle, cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(context.Background(), cfg.LLM)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return llm.Close(p)
		},
	})
	return p, nil
}

func newGate(cfg *config.Config) *sessiongate.Gate {
	return sessiongate.New(cfg.Session.TimeLimit)
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// RegisterRoutesAndStartServer mounts the routes and ties the HTTP server to
// the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	student *userctrl.StudentController,
	exercise *userctrl.ExerciseController,
	admin *adminctrl.AdminController,
) {
	router.Register(engine, student, exercise, admin, db)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Tutor server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
