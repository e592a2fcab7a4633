// Package config loads settings from an optional .env file and the
// PLACEMENT_* environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/speech"
)

// Config is everything the commands need to build their dependencies.
type Config struct {
	DBPath      string // empty means store.DefaultDBPath
	Debug       bool
	LogFile     string
	AudioPlayer string

	LLM           llm.Config
	LLMConfigured bool

	Speech           speech.Config
	SpeechConfigured bool
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		DBPath:      getenv("PLACEMENT_DB"),
		Debug:       flag(getenv("PLACEMENT_DEBUG")),
		LogFile:     getenvDefault(getenv, "PLACEMENT_LOG_FILE", "placement.log"),
		AudioPlayer: strings.TrimSpace(getenv("PLACEMENT_AUDIO_PLAYER")),
	}
	cfg.LLM, cfg.LLMConfigured = llmConfig(getenv)
	cfg.Speech, cfg.SpeechConfigured = speechConfig(getenv, cfg.LLM)
	return cfg
}

// llmConfig prefers an explicit PLACEMENT_LLM_PROVIDER and falls back to
// the standard key variables, probed Gemini, OpenAI, Anthropic, OpenRouter.
func llmConfig(getenv func(string) string) (llm.Config, bool) {
	cfg := llm.DefaultConfig()

	backends := []struct {
		name string
		bc   *llm.BackendConfig
		std  string
	}{
		{llm.BackendGemini, &cfg.Gemini, "GEMINI_API_KEY"},
		{llm.BackendOpenAI, &cfg.OpenAI, "OPENAI_API_KEY"},
		{llm.BackendAnthropic, &cfg.Anthropic, "ANTHROPIC_API_KEY"},
		{llm.BackendOpenRouter, &cfg.OpenRouter, "OPENROUTER_API_KEY"},
	}
	discovered := ""
	for _, b := range backends {
		prefix := "PLACEMENT_" + strings.ToUpper(b.name) + "_"
		b.bc.APIKey = getenvDefault(getenv, prefix+"API_KEY", getenv(b.std))
		b.bc.Model = getenvDefault(getenv, prefix+"MODEL", b.bc.Model)
		b.bc.BaseURL = getenvDefault(getenv, prefix+"BASE_URL", b.bc.BaseURL)
		if discovered == "" && b.bc.APIKey != "" {
			discovered = b.name
		}
	}

	switch p := getenv("PLACEMENT_LLM_PROVIDER"); {
	case p != "":
		cfg.Provider = p
	case discovered != "":
		cfg.Provider = discovered
	default:
		return cfg, false
	}
	return cfg, cfg.Validate() == nil
}

// speechConfig defaults to the Gemini or OpenAI key already found for
// the LLM, in that order.
func speechConfig(getenv func(string) string, l llm.Config) (speech.Config, bool) {
	cfg := speech.DefaultConfig()
	cfg.Retry = l.Retry

	switch p := getenv("PLACEMENT_SPEECH_PROVIDER"); {
	case p != "":
		cfg.Provider = p
	case l.Gemini.APIKey != "":
		cfg.Provider = speech.BackendGemini
	case l.OpenAI.APIKey != "":
		cfg.Provider = speech.BackendOpenAI
	}

	switch cfg.Provider {
	case speech.BackendGemini:
		cfg.APIKey = l.Gemini.APIKey
	case speech.BackendOpenAI:
		cfg.APIKey = l.OpenAI.APIKey
		cfg.BaseURL = l.OpenAI.BaseURL
	}
	cfg.APIKey = getenvDefault(getenv, "PLACEMENT_SPEECH_API_KEY", cfg.APIKey)
	cfg.Model = getenv("PLACEMENT_SPEECH_MODEL")
	cfg.Voice = getenv("PLACEMENT_SPEECH_VOICE")

	return cfg, cfg.Validate() == nil
}

func getenvDefault(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func flag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
