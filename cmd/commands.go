package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	app := fx.New(coreModule, httpModule)

	if err := app.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// Wait for a shutdown signal
	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	return app.Stop(context.Background())
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithCore(cmd.Context(), fx.Invoke(AutoMigrateDB))
		},
	}
}

func newCreatePromptCmd() *cobra.Command {
	var (
		req           dto.PromptCreateDTO
		exercisesFile string
	)
	cmd := &cobra.Command{
		Use:   "create-prompt",
		Short: "Create a prompt and print its access key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exercisesFile != "" {
				data, err := os.ReadFile(exercisesFile)
				if err != nil {
					return fmt.Errorf("reading exercises file: %w", err)
				}
				req.ExercisesText = string(data)
			}
			return runWithCore(cmd.Context(),
				fx.Invoke(AutoMigrateDB),
				fx.Invoke(func(ps service.PromptService) error {
					created, err := ps.CreatePrompt(cmd.Context(), req)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "access_key=%s prompt_id=%d exercises=%d\n",
						created.AccessKey, created.ID, created.ExerciseCount)
					return nil
				}),
			)
		},
	}
	cmd.Flags().StringVar(&req.StudentEmail, "email", "", "student email")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic of the session")
	cmd.Flags().StringVar(&req.PromptContent, "content", "", "system prompt for the tutor")
	cmd.Flags().StringVar(&exercisesFile, "exercises-file", "", "file with one predefined exercise per line")
	for _, name := range []string{"email", "topic", "content"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// runWithCore builds the non-HTTP graph, runs the given invokes and closes
// the database again.
func runWithCore(ctx context.Context, opts ...fx.Option) error {
	app := fx.New(coreModule, fx.NopLogger, fx.Options(opts...))
	if err := app.Err(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}
