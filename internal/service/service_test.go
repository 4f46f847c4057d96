package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/tutorkeys/config"
	"github.com/lshigami/tutorkeys/database"
	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/llm"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/lshigami/tutorkeys/internal/repository"
	"github.com/lshigami/tutorkeys/internal/sessiongate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	clock     time.Time
	gate      *sessiongate.Gate
	provider  *llm.MockProvider
	prompts   *promptService
	chat      ChatService
	exercises ExerciseService
	history   repository.HistoryRepository
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		LLM:     config.LLM{Timeout: 5 * time.Second},
		Session: config.Session{TimeLimit: sessiongate.DefaultLimit, AccessKeyLength: 16},
	}

	f := &fixture{db: db, clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	f.gate = &sessiongate.Gate{Limit: sessiongate.DefaultLimit, Now: func() time.Time { return f.clock }}
	f.provider = llm.NewMockProvider(responses...)

	promptRepo := repository.NewPromptRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	f.history = repository.NewHistoryRepository(db)
	relay := NewCompletionRelay(f.provider, cfg)

	f.prompts = NewPromptService(promptRepo, exerciseRepo, f.gate, cfg, db).(*promptService)
	f.chat = NewChatService(f.prompts, f.history, relay, f.gate)
	f.exercises = NewExerciseService(promptRepo, exerciseRepo, f.history, f.prompts, relay, db)
	return f
}

func (f *fixture) createPrompt(t *testing.T, exercises string) *dto.PromptCreatedDTO {
	t.Helper()
	created, err := f.prompts.CreatePrompt(context.Background(), dto.PromptCreateDTO{
		StudentEmail:  "ana@example.com",
		Topic:         "loops",
		PromptContent: "Eres un tutor paciente.",
		ExercisesText: exercises,
	})
	require.NoError(t, err)
	return created
}

func (f *fixture) historyCount(t *testing.T, key string) int64 {
	t.Helper()
	n, err := f.history.CountByAccessKey(context.Background(), key)
	require.NoError(t, err)
	return n
}

func TestParseExerciseLines(t *testing.T) {
	assert.Equal(t, []string{"uno", "dos", "tres"}, ParseExerciseLines("uno\n\n  dos  \r\n\ntres\n"))
	assert.Empty(t, ParseExerciseLines(" \n\t\n"))
}

func TestCreatePrompt_StoresExercisesInOrder(t *testing.T) {
	f := newFixture(t)
	created := f.createPrompt(t, "first\n\nsecond\n   \nthird")

	assert.Len(t, created.AccessKey, 16)
	assert.Equal(t, 3, created.ExerciseCount)

	view, err := f.prompts.ChatView(context.Background(), created.AccessKey)
	require.NoError(t, err)
	require.Len(t, view.Exercises, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, view.Exercises[i].ExerciseText)
		assert.Equal(t, i+1, view.Exercises[i].OrderInList)
	}
	assert.Equal(t, "loops", view.Topic)
	assert.Equal(t, created.ID, view.PromptID)
	assert.False(t, view.Expired)
	assert.Equal(t, 1800, view.RemainingSeconds)
	assert.Equal(t, "2024-05-01T10:00:00Z", view.SessionStartTime)
	assert.Equal(t, "2024-05-01T10:30:00Z", view.SessionEndTime)
}

func TestCreatePrompt_MissingFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.prompts.CreatePrompt(context.Background(), dto.PromptCreateDTO{
		StudentEmail:  "ana@example.com",
		Topic:         "  ",
		PromptContent: "x",
	})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCreatePrompt_RetriesOnKeyCollision(t *testing.T) {
	f := newFixture(t)
	existing := f.createPrompt(t, "")

	keys := []string{existing.AccessKey, existing.AccessKey, "FreshKeyFreshKey"}
	f.prompts.newKey = func(int) (string, error) {
		k := keys[0]
		keys = keys[1:]
		return k, nil
	}

	created := f.createPrompt(t, "a\nb")
	assert.Equal(t, "FreshKeyFreshKey", created.AccessKey)
	assert.Empty(t, keys)

	view, err := f.prompts.ChatView(context.Background(), created.AccessKey)
	require.NoError(t, err)
	assert.Len(t, view.Exercises, 2)
}

func TestCreatePrompt_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	existing := f.createPrompt(t, "")

	attempts := 0
	f.prompts.newKey = func(int) (string, error) {
		attempts++
		return existing.AccessKey, nil
	}

	_, err := f.prompts.CreatePrompt(context.Background(), dto.PromptCreateDTO{
		StudentEmail: "bob@example.com", Topic: "arrays", PromptContent: "x", ExercisesText: "one",
	})
	assert.ErrorIs(t, err, ErrAccessKeyExhausted)
	assert.Equal(t, maxKeyAttempts, attempts)

	var prompts, exercises int64
	require.NoError(t, f.db.Model(&model.Prompt{}).Count(&prompts).Error)
	require.NoError(t, f.db.Model(&model.PredefinedExercise{}).Count(&exercises).Error)
	assert.EqualValues(t, 1, prompts)
	assert.EqualValues(t, 0, exercises)
}

func TestCreatePrompt_KeyGeneratorError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("entropy exhausted")
	f.prompts.newKey = func(int) (string, error) { return "", boom }

	_, err := f.prompts.CreatePrompt(context.Background(), dto.PromptCreateDTO{
		StudentEmail: "a@example.com", Topic: "t", PromptContent: "c",
	})
	assert.ErrorIs(t, err, boom)
}

func TestCreatePrompt_ConcurrentKeysAreDistinct(t *testing.T) {
	f := newFixture(t)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		keys = make(map[string]struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := f.prompts.CreatePrompt(context.Background(), dto.PromptCreateDTO{
				StudentEmail:  fmt.Sprintf("s%d@example.com", i),
				Topic:         "loops",
				PromptContent: "c",
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			keys[created.AccessKey] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	assert.Len(t, keys, n)
}

func TestCheckAccess(t *testing.T) {
	f := newFixture(t)
	created := f.createPrompt(t, "")

	got, err := f.prompts.CheckAccess(context.Background(), created.AccessKey)
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, "ana@example.com", got.StudentEmail)
	require.NotNil(t, got.SessionStartTime)
	assert.Equal(t, "2024-05-01T10:00:00Z", *got.SessionStartTime)

	_, err = f.prompts.CheckAccess(context.Background(), "doesNotExist0000")
	assert.ErrorIs(t, err, ErrPromptNotFound)
	_, err = f.prompts.CheckAccess(context.Background(), "bad key!")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestListRecent(t *testing.T) {
	f := newFixture(t)
	first := f.createPrompt(t, "")
	second := f.createPrompt(t, "")

	list, err := f.prompts.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.AccessKey, list[0].AccessKey)
	assert.Equal(t, first.AccessKey, list[1].AccessKey)
	assert.Equal(t, "loops", list[0].Topic)
}

func TestChat_UnknownKeyNeverCallsModel(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "hola"})

	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: "unknownKey000000", UserMessage: "hi"})
	assert.Equal(t, MsgInvalidAccessKey, resp.AIResponse)
	assert.Empty(t, f.provider.Calls())
}

func TestChat_ExpiredSession(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "hola"})
	created := f.createPrompt(t, "")

	f.clock = f.clock.Add(30 * time.Minute)
	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: created.AccessKey, UserMessage: "hi"})
	assert.Equal(t, "hola", resp.AIResponse)

	f.clock = f.clock.Add(time.Minute)
	resp = f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: created.AccessKey, UserMessage: "hi"})
	assert.Equal(t, MsgSessionExpired, resp.AIResponse)
	assert.Len(t, f.provider.Calls(), 1)
}

func TestChat_PlainTurnIsRecorded(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "Usa un bucle for."})
	created := f.createPrompt(t, "")

	msg := "Ejercicio (bucles): suma del 1 al 10"
	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: created.AccessKey, UserMessage: msg})
	assert.Equal(t, "Usa un bucle for.", resp.AIResponse)

	calls := f.provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Eres un tutor paciente.", calls[0].System)
	require.Len(t, calls[0].Messages, 1)
	assert.Equal(t, msg, calls[0].Messages[0].Content)
	assert.Equal(t, llm.RoleUser, calls[0].Messages[0].Role)

	entries, err := f.history.ListByAccessKey(context.Background(), created.AccessKey)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, msg, entries[0].ExerciseText)
	assert.Equal(t, "Usa un bucle for.", entries[0].SolutionText)
	require.NotNil(t, entries[0].ExerciseType)
	assert.Equal(t, "bucles", *entries[0].ExerciseType)
}

func TestChat_LongTypeTagIsTruncated(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "Bien."})
	created := f.createPrompt(t, "")

	msg := "(" + strings.Repeat("x", 300) + "): hola"
	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: created.AccessKey, UserMessage: msg})
	assert.Equal(t, "Bien.", resp.AIResponse)

	entries, err := f.history.ListByAccessKey(context.Background(), created.AccessKey)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, msg, entries[0].ExerciseText)
	require.NotNil(t, entries[0].ExerciseType)
	assert.Equal(t, strings.Repeat("x", 120), *entries[0].ExerciseType)
}

func TestChat_GetSolutionAppendsInstruction(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "Paso 1..."})
	created := f.createPrompt(t, "")

	f.chat.Chat(context.Background(), dto.ChatRequestDTO{
		AccessKey:   created.AccessKey,
		UserMessage: "suma del 1 al 10",
		Action:      dto.ActionGetSolution,
	})

	calls := f.provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Eres un tutor paciente."+solutionInstruction, calls[0].System)
	assert.Equal(t, "suma del 1 al 10", calls[0].Messages[0].Content)
	assert.EqualValues(t, 1, f.historyCount(t, created.AccessKey))
}

func TestChat_InitialMessageSendsGreetingAndIsNotRecorded(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: "¡Hola!"})
	created := f.createPrompt(t, "")

	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{
		AccessKey:   created.AccessKey,
		UserMessage: "start",
		Action:      dto.ActionInitialMessage,
	})
	assert.Equal(t, "¡Hola!", resp.AIResponse)

	calls := f.provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, greetingRequest, calls[0].Messages[0].Content)
	assert.EqualValues(t, 0, f.historyCount(t, created.AccessKey))
}

func TestChat_RelayFailureReturnsFallbackWithoutHistory(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Provider: "mock"}})
	created := f.createPrompt(t, "")

	resp := f.chat.Chat(context.Background(), dto.ChatRequestDTO{AccessKey: created.AccessKey, UserMessage: "hi"})
	assert.Equal(t, FallbackReply, resp.AIResponse)
	assert.EqualValues(t, 0, f.historyCount(t, created.AccessKey))
}

func TestGenerateExercise_AppendsAfterExisting(t *testing.T) {
	f := newFixture(t, llm.MockResponse{
		Text: `{"exercise":"Invierte una cadena","solution":"s[::-1]","exercise_type":"cadenas","difficulty":"fácil"}`,
	})
	created := f.createPrompt(t, "one\ntwo")

	resp, err := f.exercises.GenerateExercise(context.Background(), dto.GenerateExerciseRequestDTO{
		AccessKey: created.AccessKey,
		PromptID:  created.ID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Invierte una cadena", resp.Exercise)
	assert.NotZero(t, resp.ExerciseID)

	calls := f.provider.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].JSON)
	assert.Equal(t, generateTemperature, calls[0].Temperature)
	assert.Contains(t, calls[0].Messages[0].Content, "loops")

	view, err := f.prompts.ChatView(context.Background(), created.AccessKey)
	require.NoError(t, err)
	require.Len(t, view.Exercises, 3)
	assert.Equal(t, "Invierte una cadena", view.Exercises[2].ExerciseText)
	assert.Equal(t, 3, view.Exercises[2].OrderInList)
}

func TestGenerateExercise_Errors(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: errors.New("upstream down")})
	created := f.createPrompt(t, "")
	ctx := context.Background()

	_, err := f.exercises.GenerateExercise(ctx, dto.GenerateExerciseRequestDTO{AccessKey: created.AccessKey})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.exercises.GenerateExercise(ctx, dto.GenerateExerciseRequestDTO{AccessKey: created.AccessKey, PromptID: created.ID + 1})
	assert.ErrorIs(t, err, ErrPromptNotFound)
	assert.Empty(t, f.provider.Calls())

	_, err = f.exercises.GenerateExercise(ctx, dto.GenerateExerciseRequestDTO{AccessKey: created.AccessKey, PromptID: created.ID})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPromptNotFound)
}

func TestSubmitSolution(t *testing.T) {
	f := newFixture(t)
	created := f.createPrompt(t, "")
	ctx := context.Background()

	kind, blank := "bucles", " "
	require.NoError(t, f.exercises.SubmitSolution(ctx, dto.SubmitSolutionRequestDTO{
		AccessKey:    created.AccessKey,
		ExerciseText: "e",
		SolutionText: "s",
		ExerciseType: &kind,
		Difficulty:   &blank,
	}))

	view, err := f.exercises.History(ctx, created.AccessKey)
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "s", view.Entries[0].SolutionText)
	require.NotNil(t, view.Entries[0].ExerciseType)
	assert.Equal(t, "bucles", *view.Entries[0].ExerciseType)
	assert.Nil(t, view.Entries[0].Difficulty)

	err = f.exercises.SubmitSolution(ctx, dto.SubmitSolutionRequestDTO{AccessKey: created.AccessKey, ExerciseText: "e"})
	assert.ErrorIs(t, err, ErrMissingFields)

	err = f.exercises.SubmitSolution(ctx, dto.SubmitSolutionRequestDTO{AccessKey: "unknownKey000000", ExerciseText: "e", SolutionText: "s"})
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestSolveView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty := f.createPrompt(t, "")
	_, err := f.exercises.SolveView(ctx, empty.AccessKey)
	assert.ErrorIs(t, err, ErrNoExercise)

	withExercises := f.createPrompt(t, "primero\nsegundo")
	view, err := f.exercises.SolveView(ctx, withExercises.AccessKey)
	require.NoError(t, err)
	assert.Equal(t, "primero", view.ExerciseText)
	assert.Equal(t, 1, view.OrderInList)

	_, err = f.exercises.SolveView(ctx, "unknownKey000000")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestAdminAuth(t *testing.T) {
	disabled, err := NewAdminAuthService(&config.Config{})
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.False(t, disabled.Authenticate(""))

	auth, err := NewAdminAuthService(&config.Config{Admin: config.Admin{Password: "s3cret"}})
	require.NoError(t, err)
	assert.True(t, auth.Enabled())
	assert.True(t, auth.Authenticate("s3cret"))
	assert.False(t, auth.Authenticate("wrong"))
	assert.False(t, auth.Authenticate(""))

	_, err = NewAdminAuthService(&config.Config{Admin: config.Admin{Password: strings.Repeat("p", 80)}})
	require.Error(t, err)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}
