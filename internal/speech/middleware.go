package speech

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/store"
)

type loggingSynthesizer struct {
	inner Synthesizer
	repo  store.EventRepo
}

// WithLogging records every synthesis request in repo.
func WithLogging(s Synthesizer, repo store.EventRepo) Synthesizer {
	if repo == nil {
		return s
	}
	return &loggingSynthesizer{inner: s, repo: repo}
}

func (l *loggingSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()
	clip, err := l.inner.Synthesize(ctx, text)

	ev := store.RequestEventData{
		Kind:        store.KindSpeech,
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     llm.PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: text,
	}
	if clip != nil {
		ev.ResponseBody = fmt.Sprintf("%d bytes pcm16le %d Hz x%d", len(clip.Data), clip.SampleRate, clip.Channels)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	if logErr := l.repo.AppendRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		log.Printf("speech: record request event: %v", logErr)
	}
	return clip, err
}

func (l *loggingSynthesizer) ModelID() string { return l.inner.ModelID() }
func (l *loggingSynthesizer) Name() string    { return l.inner.Name() }

type retrySynthesizer struct {
	inner Synthesizer
	cfg   llm.RetryConfig
}

// WithRetry retries transient failures with the LLM backoff policy.
func WithRetry(s Synthesizer, cfg llm.RetryConfig) Synthesizer {
	return &retrySynthesizer{inner: s, cfg: cfg}
}

func (r *retrySynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	var clip *Clip
	err := llm.Do(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		clip, err = r.inner.Synthesize(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func (r *retrySynthesizer) ModelID() string { return r.inner.ModelID() }
func (r *retrySynthesizer) Name() string    { return r.inner.Name() }

// New builds the configured backend wrapped in retry and logging.
func New(ctx context.Context, cfg Config, events store.EventRepo) (Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Synthesizer
		err  error
	)
	switch cfg.Provider {
	case BackendGemini:
		base, err = NewGeminiSynthesizer(ctx, cfg)
	case BackendOpenAI:
		base, err = NewOpenAISynthesizer(cfg)
	case BackendMock:
		base = &MockSynthesizer{}
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s speech: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, events), cfg.Retry), nil
}
