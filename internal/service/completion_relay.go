package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/tutorkeys/config"
	"github.com/lshigami/tutorkeys/internal/llm"
	"github.com/rs/zerolog/log"
)

// CompletionRelay forwards tutoring exchanges to the language model.
type CompletionRelay interface {
	// Complete never fails: on any error it logs and returns FallbackReply
	// with ok=false so callers can tell a real reply from the apology.
	Complete(ctx context.Context, systemPrompt, userMessage string) (reply string, ok bool)
	// Generate is the non-swallowing variant for callers that must report failure.
	Generate(ctx context.Context, req llm.Request) (string, error)
}

type completionRelay struct {
	provider llm.Provider
	timeout  time.Duration
}

func NewCompletionRelay(provider llm.Provider, cfg *config.Config) CompletionRelay {
	return &completionRelay{provider: provider, timeout: cfg.LLM.Timeout}
}

func (r *completionRelay) Complete(ctx context.Context, systemPrompt, userMessage string) (string, bool) {
	reply, err := r.Generate(ctx, llm.UserRequest(systemPrompt, userMessage))
	if err != nil {
		log.Error().Err(err).Str("model", r.provider.ModelID()).Msg("Completion relay failed, answering with fallback")
		return FallbackReply, false
	}
	return reply, true
}

func (r *completionRelay) Generate(ctx context.Context, req llm.Request) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.Text == "" {
		return "", llm.ErrEmptyResponse
	}
	return resp.Text, nil
}
