package repository

import (
	"context"

	"github.com/lshigami/tutorkeys/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository interface {
	Append(ctx context.Context, entry *model.ExerciseHistory) error
	ListByAccessKey(ctx context.Context, accessKey string) ([]model.ExerciseHistory, error)
	CountByAccessKey(ctx context.Context, accessKey string) (int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.ExerciseHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepository) ListByAccessKey(ctx context.Context, accessKey string) ([]model.ExerciseHistory, error) {
	var entries []model.ExerciseHistory
	err := r.db.WithContext(ctx).
		Where("access_key = ?", accessKey).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepository) CountByAccessKey(ctx context.Context, accessKey string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ExerciseHistory{}).
		Where("access_key = ?", accessKey).
		Count(&count).Error
	return count, err
}
