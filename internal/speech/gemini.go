package speech

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/abhisek/placement/internal/llm"
)

// GeminiSynthesizer uses the audio response modality of Gemini.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer builds a synthesizer from cfg.
func NewGeminiSynthesizer(ctx context.Context, cfg Config) (*GeminiSynthesizer, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiSynthesizer{client: client, model: cfg.Model, voice: cfg.Voice}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	gc := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), gc)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			return nil, &llm.ErrRateLimit{Err: err}
		}
		return nil, &llm.ErrProviderUnavailable{Err: err}
	}

	data := firstAudio(result)
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	return newClip(data), nil
}

func (g *GeminiSynthesizer) ModelID() string { return g.model }
func (g *GeminiSynthesizer) Name() string    { return BackendGemini }

// firstAudio returns the first inline blob of the first candidate.
func firstAudio(result *genai.GenerateContentResponse) []byte {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
