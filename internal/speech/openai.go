package speech

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/placement/internal/llm"
)

// OpenAISynthesizer calls the audio/speech endpoint with PCM output,
// which is 24 kHz mono PCM16LE.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	voice  string
}

// NewOpenAISynthesizer builds a synthesizer from cfg.
func NewOpenAISynthesizer(cfg Config) (*OpenAISynthesizer, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		voice:  cfg.Voice,
	}, nil
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return nil, &llm.ErrRateLimit{Err: err}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == 429 {
			return nil, &llm.ErrRateLimit{Err: err}
		}
		return nil, &llm.ErrProviderUnavailable{Err: err}
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, &llm.ErrProviderUnavailable{Err: fmt.Errorf("read audio: %w", err)}
	}
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	return newClip(data), nil
}

func (o *OpenAISynthesizer) ModelID() string { return o.model }
func (o *OpenAISynthesizer) Name() string    { return BackendOpenAI }
