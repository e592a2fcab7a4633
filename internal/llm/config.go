package llm

import (
	"fmt"
	"time"
)

// Backend names accepted in Config.Provider.
const (
	BackendAnthropic  = "anthropic"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
	BackendMock       = "mock"
)

// Config selects and configures a backend.
type Config struct {
	Provider string

	Anthropic  BackendConfig
	OpenAI     BackendConfig
	Gemini     BackendConfig
	OpenRouter BackendConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

// BackendConfig holds the credentials of one backend. BaseURL is only
// honoured by OpenAI-compatible backends.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Anthropic with small, inexpensive models everywhere.
func DefaultConfig() Config {
	return Config{
		Provider:   BackendAnthropic,
		Anthropic:  BackendConfig{Model: "claude-haiku"},
		OpenAI:     BackendConfig{Model: "gpt-4o-mini"},
		Gemini:     BackendConfig{Model: "gemini-flash"},
		OpenRouter: BackendConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// Selected returns the configuration of the chosen backend.
func (c Config) Selected() BackendConfig {
	switch c.Provider {
	case BackendAnthropic:
		return c.Anthropic
	case BackendOpenAI:
		return c.OpenAI
	case BackendGemini:
		return c.Gemini
	case BackendOpenRouter:
		return c.OpenRouter
	}
	return BackendConfig{}
}

// Validate checks that the chosen backend is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case BackendMock:
		return nil
	case BackendAnthropic, BackendOpenAI, BackendGemini, BackendOpenRouter:
		if c.Selected().APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
