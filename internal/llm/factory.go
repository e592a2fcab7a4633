package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/placement/internal/store"
)

// NewProvider builds the configured backend and wraps it so that every
// attempt is logged and transient failures are retried:
//
//	caller -> retry -> logging -> backend
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case BackendAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case BackendOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case BackendOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case BackendGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case BackendMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, events), cfg.Retry), nil
}
