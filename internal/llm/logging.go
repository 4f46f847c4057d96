package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// loggingProvider logs every exchange with its latency and token usage.
type loggingProvider struct {
	inner Provider
}

// WithLogging wraps p so every call is logged through zerolog.
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	log.Debug().
		Str("model", l.inner.ModelID()).
		Str("system", req.System).
		Int("messages", len(req.Messages)).
		Bool("json", req.JSON).
		Msg("LLM request")

	resp, err := l.inner.Generate(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", l.inner.ModelID()).Dur("latency", time.Since(start)).Msg("LLM request failed")
		return nil, err
	}

	log.Info().
		Str("model", resp.Model).
		Dur("latency", time.Since(start)).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Msg("LLM request completed")
	return resp, nil
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *loggingProvider) Close() error {
	return Close(l.inner)
}
