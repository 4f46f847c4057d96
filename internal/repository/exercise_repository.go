package repository

import (
	"context"

	"github.com/lshigami/tutorkeys/internal/model"
	"gorm.io/gorm"
)

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *model.PredefinedExercise) error
	CreateBatch(ctx context.Context, exercises []model.PredefinedExercise) error
	ListByPrompt(ctx context.Context, promptID uint) ([]model.PredefinedExercise, error)
	FirstByPrompt(ctx context.Context, promptID uint) (*model.PredefinedExercise, error)
	// NextOrder returns the order_in_list a newly appended exercise should take.
	NextOrder(ctx context.Context, promptID uint) (int, error)
	WithTx(tx *gorm.DB) ExerciseRepository
}

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) WithTx(tx *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: tx}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *model.PredefinedExercise) error {
	return r.db.WithContext(ctx).Create(exercise).Error
}

func (r *exerciseRepository) CreateBatch(ctx context.Context, exercises []model.PredefinedExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&exercises).Error
}

func (r *exerciseRepository) ListByPrompt(ctx context.Context, promptID uint) ([]model.PredefinedExercise, error) {
	var exercises []model.PredefinedExercise
	err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("order_in_list ASC, id ASC").
		Find(&exercises).Error
	return exercises, err
}

func (r *exerciseRepository) FirstByPrompt(ctx context.Context, promptID uint) (*model.PredefinedExercise, error) {
	var exercise model.PredefinedExercise
	err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("order_in_list ASC, id ASC").
		First(&exercise).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) NextOrder(ctx context.Context, promptID uint) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).
		Model(&model.PredefinedExercise{}).
		Where("prompt_id = ?", promptID).
		Select("COALESCE(MAX(order_in_list), 0)").
		Scan(&maxOrder).Error
	return maxOrder + 1, err
}
