package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/tutorkeys/config"
	"github.com/lshigami/tutorkeys/internal/accesskey"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/lshigami/tutorkeys/internal/repository"
	"github.com/lshigami/tutorkeys/internal/sessiongate"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxKeyAttempts bounds the retry loop on access key collisions.
const maxKeyAttempts = 8

const issueKeySavepoint = "issue_access_key"

type PromptService interface {
	// CreatePrompt issues a unique access key and stores the prompt together
	// with its predefined exercises in one transaction.
	CreatePrompt(ctx context.Context, req dto.PromptCreateDTO) (*dto.PromptCreatedDTO, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*model.Prompt, error)
	CheckAccess(ctx context.Context, accessKey string) (*dto.AccessCheckDTO, error)
	ChatView(ctx context.Context, accessKey string) (*dto.ChatViewDTO, error)
	ListRecent(ctx context.Context, limit int) ([]dto.PromptSummaryDTO, error)
}

type promptService struct {
	promptRepo   repository.PromptRepository
	exerciseRepo repository.ExerciseRepository
	gate         *sessiongate.Gate
	db           *gorm.DB
	keyLength    int
	newKey       func(length int) (string, error)
}

func NewPromptService(
	promptRepo repository.PromptRepository,
	exerciseRepo repository.ExerciseRepository,
	gate *sessiongate.Gate,
	cfg *config.Config,
	db *gorm.DB,
) PromptService {
	return &promptService{
		promptRepo:   promptRepo,
		exerciseRepo: exerciseRepo,
		gate:         gate,
		db:           db,
		keyLength:    cfg.Session.AccessKeyLength,
		newKey:       accesskey.Generate,
	}
}

// ParseExerciseLines splits newline-separated exercises, dropping blank lines.
func ParseExerciseLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (s *promptService) CreatePrompt(ctx context.Context, req dto.PromptCreateDTO) (*dto.PromptCreatedDTO, error) {
	email := strings.TrimSpace(req.StudentEmail)
	topic := strings.TrimSpace(req.Topic)
	content := strings.TrimSpace(req.PromptContent)
	if email == "" || topic == "" || content == "" {
		return nil, ErrMissingFields
	}
	lines := ParseExerciseLines(req.ExercisesText)

	prompt := model.Prompt{
		StudentEmail:     email,
		Topic:            topic,
		PromptContent:    content,
		SessionStartTime: model.NewSessionTime(s.gate.Now()),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithUniqueKey(ctx, tx, &prompt); err != nil {
			return err
		}

		exercises := make([]model.PredefinedExercise, 0, len(lines))
		for i, line := range lines {
			exercises = append(exercises, model.PredefinedExercise{
				PromptID:     prompt.ID,
				ExerciseText: line,
				OrderInList:  i + 1,
			})
		}
		if err := s.exerciseRepo.WithTx(tx).CreateBatch(ctx, exercises); err != nil {
			return fmt.Errorf("failed to store predefined exercises: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("studentEmail", email).Msg("CreatePrompt: transaction rolled back")
		return nil, err
	}

	log.Info().Uint("promptID", prompt.ID).Int("exercises", len(lines)).Msg("Prompt created")
	return &dto.PromptCreatedDTO{
		ID:            prompt.ID,
		AccessKey:     prompt.AccessKey,
		StudentEmail:  prompt.StudentEmail,
		Topic:         prompt.Topic,
		ExerciseCount: len(lines),
		CreatedAt:     prompt.CreatedAt,
	}, nil
}

// insertWithUniqueKey relies on the unique index rather than a pre-check:
// each attempt runs under a savepoint and a duplicate key rolls back to it
// and retries with a fresh key.
func (s *promptService) insertWithUniqueKey(ctx context.Context, tx *gorm.DB, prompt *model.Prompt) error {
	repo := s.promptRepo.WithTx(tx)
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err := s.newKey(s.keyLength)
		if err != nil {
			return fmt.Errorf("failed to generate access key: %w", err)
		}
		prompt.ID = 0
		prompt.AccessKey = key

		if err := tx.SavePoint(issueKeySavepoint).Error; err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}
		err = repo.Create(ctx, prompt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to store prompt: %w", err)
		}
		log.Warn().Int("attempt", attempt).Msg("Access key collision, retrying with a new key")
		if err := tx.RollbackTo(issueKeySavepoint).Error; err != nil {
			return fmt.Errorf("failed to roll back to savepoint: %w", err)
		}
	}
	return ErrAccessKeyExhausted
}

func (s *promptService) GetByAccessKey(ctx context.Context, accessKey string) (*model.Prompt, error) {
	if !accesskey.Valid(accessKey) {
		return nil, ErrPromptNotFound
	}
	prompt, err := s.promptRepo.FindByAccessKey(ctx, accessKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up access key: %w", err)
	}
	return prompt, nil
}

func (s *promptService) CheckAccess(ctx context.Context, accessKey string) (*dto.AccessCheckDTO, error) {
	prompt, err := s.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	resp := &dto.AccessCheckDTO{
		Exists:       true,
		StudentEmail: prompt.StudentEmail,
		Topic:        prompt.Topic,
	}
	if prompt.SessionStartTime.Valid {
		started := prompt.SessionStartTime.Time.Format(time.RFC3339)
		resp.SessionStartTime = &started
	}
	return resp, nil
}

func (s *promptService) ChatView(ctx context.Context, accessKey string) (*dto.ChatViewDTO, error) {
	if !accesskey.Valid(accessKey) {
		return nil, ErrPromptNotFound
	}
	prompt, err := s.promptRepo.FindByAccessKeyWithExercises(ctx, accessKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading chat view: %w", err)
	}

	var exercises []dto.ExerciseDTO
	if err := copier.Copy(&exercises, &prompt.PredefinedExercises); err != nil {
		return nil, fmt.Errorf("error preparing exercises: %w", err)
	}

	status := s.gate.Check(prompt.SessionStartTime.Time)
	return &dto.ChatViewDTO{
		AccessKey:        prompt.AccessKey,
		PromptID:         prompt.ID,
		Topic:            prompt.Topic,
		Exercises:        exercises,
		SessionStartTime: status.Start.Format(time.RFC3339),
		SessionEndTime:   status.End.Format(time.RFC3339),
		RemainingSeconds: int(status.Remaining / time.Second),
		Expired:          status.Expired,
	}, nil
}

func (s *promptService) ListRecent(ctx context.Context, limit int) ([]dto.PromptSummaryDTO, error) {
	prompts, err := s.promptRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	var summaries []dto.PromptSummaryDTO
	if err := copier.Copy(&summaries, &prompts); err != nil {
		return nil, fmt.Errorf("error preparing prompt list: %w", err)
	}
	return summaries, nil
}
