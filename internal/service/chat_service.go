package service

import (
	"context"
	"errors"

	"github.com/lshigami/tutorkeys/internal/dto"
	"github.com/lshigami/tutorkeys/internal/model"
	"github.com/lshigami/tutorkeys/internal/repository"
	"github.com/lshigami/tutorkeys/internal/sessiongate"
	"github.com/rs/zerolog/log"
)

type ChatService interface {
	// Chat answers one student turn. Logical failures (unknown key, expired
	// session, model error) come back as reply text, never as an error.
	Chat(ctx context.Context, req dto.ChatRequestDTO) dto.ChatResponseDTO
}

type chatService struct {
	prompts     PromptService
	historyRepo repository.HistoryRepository
	relay       CompletionRelay
	gate        *sessiongate.Gate
}

func NewChatService(
	prompts PromptService,
	historyRepo repository.HistoryRepository,
	relay CompletionRelay,
	gate *sessiongate.Gate,
) ChatService {
	return &chatService{
		prompts:     prompts,
		historyRepo: historyRepo,
		relay:       relay,
		gate:        gate,
	}
}

func (s *chatService) Chat(ctx context.Context, req dto.ChatRequestDTO) dto.ChatResponseDTO {
	prompt, err := s.prompts.GetByAccessKey(ctx, req.AccessKey)
	if err != nil {
		if !errors.Is(err, ErrPromptNotFound) {
			log.Error().Err(err).Msg("Chat: prompt lookup failed")
		}
		return dto.ChatResponseDTO{AIResponse: MsgInvalidAccessKey}
	}

	if s.gate.Check(prompt.SessionStartTime.Time).Expired {
		log.Info().Uint("promptID", prompt.ID).Msg("Chat: session expired")
		return dto.ChatResponseDTO{AIResponse: MsgSessionExpired}
	}

	system := prompt.PromptContent
	userMessage := req.UserMessage
	switch req.Action {
	case dto.ActionGetSolution:
		system += solutionInstruction
	case dto.ActionInitialMessage:
		userMessage = greetingRequest
	}

	reply, ok := s.relay.Complete(ctx, system, userMessage)
	if ok && req.Action != dto.ActionInitialMessage {
		s.record(ctx, req.AccessKey, req.UserMessage, reply)
	}
	return dto.ChatResponseDTO{AIResponse: reply}
}

func (s *chatService) record(ctx context.Context, accessKey, message, reply string) {
	entry := &model.ExerciseHistory{
		AccessKey:    accessKey,
		ExerciseText: message,
		SolutionText: reply,
	}
	if kind := ExerciseTypeOf(message); kind != "" {
		entry.ExerciseType = &kind
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Error().Err(err).Msg("Chat: failed to record exercise history")
	}
}
