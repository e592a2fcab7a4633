package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/speech"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv_Empty(t *testing.T) {
	cfg := FromEnv(env(nil))

	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "placement.log", cfg.LogFile)
	assert.False(t, cfg.LLMConfigured)
	assert.False(t, cfg.SpeechConfigured)
}

func TestFromEnv_ExplicitProvider(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"PLACEMENT_DB":                "/tmp/p.db",
		"PLACEMENT_DEBUG":             "true",
		"PLACEMENT_LLM_PROVIDER":      "anthropic",
		"PLACEMENT_ANTHROPIC_API_KEY": "sk-ant",
		"PLACEMENT_ANTHROPIC_MODEL":   "claude-sonnet",
		"PLACEMENT_AUDIO_PLAYER":      "paplay --raw",
	}))

	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "paplay --raw", cfg.AudioPlayer)
	require.True(t, cfg.LLMConfigured)
	assert.Equal(t, llm.BackendAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.False(t, cfg.SpeechConfigured, "anthropic has no speech backend")
}

func TestFromEnv_AudioPlayerTrimmed(t *testing.T) {
	tests := map[string]string{
		"   ":          "",
		"\t":           "",
		"  aplay -q  ": "aplay -q",
	}
	for raw, want := range tests {
		cfg := FromEnv(env(map[string]string{"PLACEMENT_AUDIO_PLAYER": raw}))
		assert.Equal(t, want, cfg.AudioPlayer, "raw %q", raw)
	}
}

func TestFromEnv_DiscoversStandardKeys(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"OPENAI_API_KEY":    "sk-openai",
		"ANTHROPIC_API_KEY": "sk-ant",
	}))

	require.True(t, cfg.LLMConfigured)
	assert.Equal(t, llm.BackendOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)

	require.True(t, cfg.SpeechConfigured)
	assert.Equal(t, speech.BackendOpenAI, cfg.Speech.Provider)
	assert.Equal(t, "sk-openai", cfg.Speech.APIKey)
}

func TestFromEnv_GeminiSharedWithSpeech(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"GEMINI_API_KEY":         "g-key",
		"PLACEMENT_SPEECH_VOICE": "Puck",
	}))

	assert.Equal(t, llm.BackendGemini, cfg.LLM.Provider)
	assert.Equal(t, speech.BackendGemini, cfg.Speech.Provider)
	assert.Equal(t, "g-key", cfg.Speech.APIKey)
	assert.Equal(t, "Puck", cfg.Speech.Voice)
}

func TestFromEnv_PrefixedKeyWins(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"GEMINI_API_KEY":           "std",
		"PLACEMENT_GEMINI_API_KEY": "prefixed",
	}))
	assert.Equal(t, "prefixed", cfg.LLM.Gemini.APIKey)
}

func TestFromEnv_UnknownProvider(t *testing.T) {
	cfg := FromEnv(env(map[string]string{"PLACEMENT_LLM_PROVIDER": "cohere"}))
	assert.False(t, cfg.LLMConfigured)
}

func TestFromEnv_MockSpeech(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"PLACEMENT_LLM_PROVIDER":    "mock",
		"PLACEMENT_SPEECH_PROVIDER": "mock",
	}))
	assert.True(t, cfg.LLMConfigured)
	assert.True(t, cfg.SpeechConfigured)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLACEMENT_LOG_FILE=from-dotenv.log\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("PLACEMENT_LOG_FILE", "")
	os.Unsetenv("PLACEMENT_LOG_FILE")

	cfg := Load()
	assert.Equal(t, "from-dotenv.log", cfg.LogFile)
}
