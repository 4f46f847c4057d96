package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/tutorkeys/database"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newPrompt(key string) *model.Prompt {
	return &model.Prompt{
		StudentEmail:     "ana@example.com",
		Topic:            "loops",
		PromptContent:    "You are a patient programming tutor.",
		AccessKey:        key,
		SessionStartTime: model.NewSessionTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestPromptRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptRepository(newTestDB(t))

	p := newPrompt("AAAAbbbbCCCCdddd")
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := repo.FindByAccessKey(ctx, "AAAAbbbbCCCCdddd")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "loops", got.Topic)
	assert.True(t, got.SessionStartTime.Valid)
	assert.True(t, p.SessionStartTime.Time.Equal(got.SessionStartTime.Time))

	_, err = repo.FindByAccessKey(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err = repo.FindByIDAndAccessKey(ctx, p.ID, p.AccessKey)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.FindByIDAndAccessKey(ctx, p.ID+1, p.AccessKey)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPromptRepository_DuplicateAccessKey(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newPrompt("SAMEKEYSAMEKEY00")))
	err := repo.Create(ctx, newPrompt("SAMEKEYSAMEKEY00"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPromptRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptRepository(newTestDB(t))

	for _, key := range []string{"k1k1k1k1", "k2k2k2k2", "k3k3k3k3"} {
		require.NoError(t, repo.Create(ctx, newPrompt(key)))
	}
	prompts, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "k3k3k3k3", prompts[0].AccessKey)
}

func TestExerciseRepository_OrderingAndNextOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	prompts := NewPromptRepository(db)
	exercises := NewExerciseRepository(db)

	p := newPrompt("EXERCISEKEY00000")
	require.NoError(t, prompts.Create(ctx, p))

	next, err := exercises.NextOrder(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, exercises.CreateBatch(ctx, []model.PredefinedExercise{
		{PromptID: p.ID, ExerciseText: "third", OrderInList: 3},
		{PromptID: p.ID, ExerciseText: "first", OrderInList: 1},
		{PromptID: p.ID, ExerciseText: "second", OrderInList: 2},
	}))
	require.NoError(t, exercises.CreateBatch(ctx, nil))

	list, err := exercises.ListByPrompt(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{list[0].ExerciseText, list[1].ExerciseText, list[2].ExerciseText})

	first, err := exercises.FirstByPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", first.ExerciseText)

	next, err = exercises.NextOrder(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	withExercises, err := prompts.FindByAccessKeyWithExercises(ctx, p.AccessKey)
	require.NoError(t, err)
	require.Len(t, withExercises.PredefinedExercises, 3)
	assert.Equal(t, "first", withExercises.PredefinedExercises[0].ExerciseText)

	_, err = exercises.FirstByPrompt(ctx, p.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHistoryRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(newTestDB(t))

	kind := "bucles"
	require.NoError(t, repo.Append(ctx, &model.ExerciseHistory{AccessKey: "HKEY", ExerciseText: "e1", SolutionText: "s1", ExerciseType: &kind}))
	require.NoError(t, repo.Append(ctx, &model.ExerciseHistory{AccessKey: "HKEY", ExerciseText: "e2", SolutionText: "s2"}))
	require.NoError(t, repo.Append(ctx, &model.ExerciseHistory{AccessKey: "OTHER", ExerciseText: "x", SolutionText: "y"}))

	entries, err := repo.ListByAccessKey(ctx, "HKEY")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ExerciseText)
	require.NotNil(t, entries[0].ExerciseType)
	assert.Equal(t, "bucles", *entries[0].ExerciseType)
	assert.Nil(t, entries[1].ExerciseType)
	assert.False(t, entries[0].Timestamp.IsZero())

	count, err := repo.CountByAccessKey(ctx, "HKEY")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestPromptRepository_TextSessionStartTime(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPromptRepository(db)

	p := newPrompt("TEXTSTARTKEY0000")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, db.Exec("UPDATE prompts SET session_start_time = ? WHERE id = ?", "garbage", p.ID).Error)

	got, err := repo.FindByAccessKey(ctx, p.AccessKey)
	require.NoError(t, err)
	assert.False(t, got.SessionStartTime.Valid)
}
