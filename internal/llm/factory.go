package llm

import (
	"context"
	"fmt"

	"github.com/lshigami/tutorkeys/config"
	"github.com/rs/zerolog/log"
)

// NewProvider builds the provider selected by LLM_PROVIDER, wrapped with logging.
// A provider without credentials is replaced by one that always fails, so
// chat turns answer with the fallback text instead of the server refusing to start.
func NewProvider(ctx context.Context, cfg config.LLM) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "openai", "":
		base, err = NewOpenAIProvider(cfg.OpenAIApiKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.GeminiApiKey, cfg.GeminiModel)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.AnthropicApiKey, cfg.AnthropicModel)
	case "mock":
		return NewMockProvider(MockResponse{Text: "Respuesta de prueba."}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.Provider).Msg("LLM provider is not configured. Chat replies will use the fallback text.")
		base = &unavailableProvider{name: cfg.Provider, err: err}
	}
	return WithLogging(base), nil
}
