package main

import (
	"os"

	"github.com/lshigami/tutorkeys/internal/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// @title Tutor Keys API
// @version 1.0
// @description Access-key gated AI tutoring: chat relay, exercise generation and solution history.
// @host localhost:8000
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tutorkeys",
		Short:         "AI tutoring sessions behind per-student access keys",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreatePromptCmd())
	return root
}
