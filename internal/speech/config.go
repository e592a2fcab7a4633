package speech

import (
	"fmt"

	"github.com/abhisek/placement/internal/llm"
)

// Backend names accepted in Config.Provider.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendMock   = "mock"
)

// Config selects a speech backend.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Voice    string
	BaseURL  string
	Retry    llm.RetryConfig
}

// DefaultConfig is Gemini TTS with the "Kore" voice. It has no key and is
// therefore disabled until one is supplied.
func DefaultConfig() Config {
	return Config{
		Provider: BackendGemini,
		Retry:    llm.DefaultConfig().Retry,
	}
}

// withDefaults fills the model and voice of the chosen backend.
func (c Config) withDefaults() Config {
	switch c.Provider {
	case BackendGemini:
		if c.Model == "" {
			c.Model = "gemini-2.5-flash-preview-tts"
		}
		if c.Voice == "" {
			c.Voice = "Kore"
		}
	case BackendOpenAI:
		if c.Model == "" {
			c.Model = "gpt-4o-mini-tts"
		}
		if c.Voice == "" {
			c.Voice = "alloy"
		}
	}
	return c
}

// Validate checks that the backend is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case BackendMock:
		return nil
	case BackendGemini, BackendOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for %s speech", c.Provider)
		}
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Provider)
	}
}
