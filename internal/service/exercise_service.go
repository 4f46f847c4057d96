package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/tutorkeys/internal/accesskey"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/llm"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/lshigami/tutorkeys/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	generateTemperature = 0.7
	generateMaxTokens   = 400
)

type ExerciseService interface {
	GenerateExercise(ctx context.Context, req dto.GenerateExerciseRequestDTO) (*dto.GenerateExerciseResponseDTO, error)
	SubmitSolution(ctx context.Context, req dto.SubmitSolutionRequestDTO) error
	SolveView(ctx context.Context, accessKey string) (*dto.SolveViewDTO, error)
	History(ctx context.Context, accessKey string) (*dto.HistoryViewDTO, error)
}

type exerciseService struct {
	promptRepo   repository.PromptRepository
	exerciseRepo repository.ExerciseRepository
	historyRepo  repository.HistoryRepository
	prompts      PromptService
	relay        CompletionRelay
	db           *gorm.DB
}

func NewExerciseService(
	promptRepo repository.PromptRepository,
	exerciseRepo repository.ExerciseRepository,
	historyRepo repository.HistoryRepository,
	prompts PromptService,
	relay CompletionRelay,
	db *gorm.DB,
) ExerciseService {
	return &exerciseService{
		promptRepo:   promptRepo,
		exerciseRepo: exerciseRepo,
		historyRepo:  historyRepo,
		prompts:      prompts,
		relay:        relay,
		db:           db,
	}
}

// GenerateExercise asks the model for a new exercise on the prompt's topic and
// appends it after the prompt's existing exercises.
func (s *exerciseService) GenerateExercise(ctx context.Context, req dto.GenerateExerciseRequestDTO) (*dto.GenerateExerciseResponseDTO, error) {
	if strings.TrimSpace(req.AccessKey) == "" || req.PromptID == 0 {
		return nil, ErrMissingFields
	}
	if !accesskey.Valid(req.AccessKey) {
		return nil, ErrPromptNotFound
	}
	prompt, err := s.promptRepo.FindByIDAndAccessKey(ctx, req.PromptID, req.AccessKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up prompt: %w", err)
	}

	reply, err := s.relay.Generate(ctx, llm.Request{
		System:      exerciseGeneratorSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(exerciseGeneratorUser, prompt.Topic)}},
		JSON:        true,
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		log.Error().Err(err).Uint("promptID", prompt.ID).Msg("GenerateExercise: relay failed")
		return nil, err
	}
	parsed, ok := ParseExerciseReply(reply)
	if !ok {
		log.Error().Str("reply", reply).Msg("GenerateExercise: reply held no exercise")
		return nil, fmt.Errorf("generating exercise: %w", llm.ErrEmptyResponse)
	}

	exercise := model.PredefinedExercise{PromptID: prompt.ID, ExerciseText: parsed.Exercise}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.exerciseRepo.WithTx(tx)
		order, err := repo.NextOrder(ctx, prompt.ID)
		if err != nil {
			return err
		}
		exercise.OrderInList = order
		return repo.Create(ctx, &exercise)
	})
	if err != nil {
		log.Error().Err(err).Uint("promptID", prompt.ID).Msg("GenerateExercise: failed to store exercise")
		return nil, fmt.Errorf("storing generated exercise: %w", err)
	}

	log.Info().Uint("promptID", prompt.ID).Uint("exerciseID", exercise.ID).Str("type", parsed.ExerciseType).Msg("Exercise generated")
	return &dto.GenerateExerciseResponseDTO{
		Success:    true,
		Exercise:   exercise.ExerciseText,
		ExerciseID: exercise.ID,
	}, nil
}

func (s *exerciseService) SubmitSolution(ctx context.Context, req dto.SubmitSolutionRequestDTO) error {
	if strings.TrimSpace(req.AccessKey) == "" || strings.TrimSpace(req.ExerciseText) == "" || strings.TrimSpace(req.SolutionText) == "" {
		return ErrMissingFields
	}
	if _, err := s.prompts.GetByAccessKey(ctx, req.AccessKey); err != nil {
		return err
	}

	entry := &model.ExerciseHistory{
		AccessKey:    req.AccessKey,
		ExerciseText: req.ExerciseText,
		SolutionText: req.SolutionText,
		ExerciseType: nonEmpty(req.ExerciseType),
		Difficulty:   nonEmpty(req.Difficulty),
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Error().Err(err).Msg("SubmitSolution: failed to record history")
		return fmt.Errorf("recording solution: %w", err)
	}
	return nil
}

func (s *exerciseService) SolveView(ctx context.Context, accessKey string) (*dto.SolveViewDTO, error) {
	prompt, err := s.prompts.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	exercise, err := s.exerciseRepo.FirstByPrompt(ctx, prompt.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoExercise
	}
	if err != nil {
		return nil, fmt.Errorf("loading first exercise: %w", err)
	}
	return &dto.SolveViewDTO{
		AccessKey:    prompt.AccessKey,
		Topic:        prompt.Topic,
		ExerciseID:   exercise.ID,
		ExerciseText: exercise.ExerciseText,
		OrderInList:  exercise.OrderInList,
	}, nil
}

// History lists what was logged under accessKey. Entries reference keys
// weakly, so no prompt lookup is made.
func (s *exerciseService) History(ctx context.Context, accessKey string) (*dto.HistoryViewDTO, error) {
	if !accesskey.Valid(accessKey) {
		return nil, ErrPromptNotFound
	}
	entries, err := s.historyRepo.ListByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	view := &dto.HistoryViewDTO{AccessKey: accessKey}
	if err := copier.Copy(&view.Entries, &entries); err != nil {
		return nil, fmt.Errorf("error preparing history: %w", err)
	}
	return view, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
