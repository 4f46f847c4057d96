package repository

import (
	"context"

	"github.com/lshigami/tutorkeys/internal/model"
	"gorm.io/gorm"
)

type PromptRepository interface {
	// Create inserts the prompt. A taken access key surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, prompt *model.Prompt) error
	FindByAccessKey(ctx context.Context, accessKey string) (*model.Prompt, error)
	FindByIDAndAccessKey(ctx context.Context, id uint, accessKey string) (*model.Prompt, error)
	FindByAccessKeyWithExercises(ctx context.Context, accessKey string) (*model.Prompt, error)
	ListRecent(ctx context.Context, limit int) ([]model.Prompt, error)
	WithTx(tx *gorm.DB) PromptRepository
}

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) WithTx(tx *gorm.DB) PromptRepository {
	return &promptRepository{db: tx}
}

func (r *promptRepository) Create(ctx context.Context, prompt *model.Prompt) error {
	// Omit associations: exercises are inserted separately so their order is controlled.
	return r.db.WithContext(ctx).Omit("PredefinedExercises").Create(prompt).Error
}

func (r *promptRepository) FindByAccessKey(ctx context.Context, accessKey string) (*model.Prompt, error) {
	var prompt model.Prompt
	if err := r.db.WithContext(ctx).Where("access_key = ?", accessKey).First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) FindByIDAndAccessKey(ctx context.Context, id uint, accessKey string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.db.WithContext(ctx).
		Where("id = ? AND access_key = ?", id, accessKey).
		First(&prompt).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) FindByAccessKeyWithExercises(ctx context.Context, accessKey string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.db.WithContext(ctx).Preload("PredefinedExercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("predefined_exercises.order_in_list ASC, predefined_exercises.id ASC")
	}).Where("access_key = ?", accessKey).First(&prompt).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) ListRecent(ctx context.Context, limit int) ([]model.Prompt, error) {
	var prompts []model.Prompt
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&prompts).Error
	return prompts, err
}
