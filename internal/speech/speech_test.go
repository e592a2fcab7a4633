package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/store"
)

type recordingEvents struct {
	events []store.RequestEventData
}

func (r *recordingEvents) AppendRequest(_ context.Context, d store.RequestEventData) error {
	r.events = append(r.events, d)
	return nil
}
func (r *recordingEvents) QueryRequests(context.Context, store.QueryOpts) ([]store.RequestEventRecord, error) {
	return nil, nil
}
func (r *recordingEvents) GetRequest(context.Context, int) (*store.RequestEventRecord, error) {
	return nil, nil
}
func (r *recordingEvents) UsageBy(context.Context, string) ([]store.UsageRow, error) {
	return nil, nil
}

// flaky fails a fixed number of times before delegating.
type flaky struct {
	MockSynthesizer
	failures int
}

func (f *flaky) Synthesize(ctx context.Context, text string) (*Clip, error) {
	if f.failures > 0 {
		f.failures--
		return nil, &llm.ErrProviderUnavailable{}
	}
	return f.MockSynthesizer.Synthesize(ctx, text)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, MsgEmptyAudio, UserMessage(ErrEmptyAudio))
	assert.Equal(t, MsgEmptyAudio, UserMessage(errors.Join(errors.New("ctx"), ErrEmptyAudio)))
	assert.Equal(t, MsgLoadFailed, UserMessage(errors.New("network down")))
}

func TestTone(t *testing.T) {
	clip := Tone(440, 500)
	assert.Equal(t, SampleRate, clip.SampleRate)
	assert.Equal(t, Channels, clip.Channels)
	assert.Len(t, clip.Data, SampleRate) // half a second of 2-byte samples
}

func TestLoggingRecordsSpeechEvents(t *testing.T) {
	events := &recordingEvents{}
	mock := &MockSynthesizer{}
	s := WithLogging(mock, events)

	ctx := llm.WithPurpose(context.Background(), PurposeListening)
	_, err := s.Synthesize(ctx, "Hello, my name is Tom.")
	require.NoError(t, err)

	mock.Err = ErrEmptyAudio
	_, err = s.Synthesize(ctx, "again")
	require.ErrorIs(t, err, ErrEmptyAudio)

	require.Len(t, events.events, 2)
	assert.Equal(t, store.KindSpeech, events.events[0].Kind)
	assert.Equal(t, PurposeListening, events.events[0].Purpose)
	assert.Equal(t, "Hello, my name is Tom.", events.events[0].RequestBody)
	assert.True(t, events.events[0].Success)
	assert.Contains(t, events.events[0].ResponseBody, "24000 Hz")
	assert.False(t, events.events[1].Success)
}

func TestRetryRecovers(t *testing.T) {
	f := &flaky{failures: 2}
	s := WithRetry(f, llm.RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1})

	clip, err := s.Synthesize(context.Background(), "text")
	require.NoError(t, err)
	assert.NotEmpty(t, clip.Data)
	assert.Equal(t, []string{"text"}, f.Texts())
}

func TestConfig(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrNotConfigured)
	assert.Error(t, DefaultConfig().Validate())
	assert.NoError(t, Config{Provider: BackendMock}.Validate())
	assert.ErrorContains(t, Config{Provider: "polly", APIKey: "k"}.Validate(), "unknown speech provider")

	g := Config{Provider: BackendGemini}.withDefaults()
	assert.Equal(t, "Kore", g.Voice)
	assert.Equal(t, "gemini-2.5-flash-preview-tts", g.Model)

	o := Config{Provider: BackendOpenAI, Voice: "nova"}.withDefaults()
	assert.Equal(t, "nova", o.Voice)
	assert.Equal(t, "gpt-4o-mini-tts", o.Model)
}

func TestNewMock(t *testing.T) {
	s, err := New(context.Background(), Config{Provider: BackendMock}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendMock, s.Name())

	_, err = New(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAISynthesizer(t *testing.T) {
	pcm := Tone(220, 10).Data
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "audio/pcm")
		w.Write(pcm)
	}))
	defer srv.Close()

	s, err := NewOpenAISynthesizer(Config{Provider: BackendOpenAI, APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	clip, err := s.Synthesize(context.Background(), "Listen carefully.")
	require.NoError(t, err)
	assert.Equal(t, "/v1/audio/speech", gotPath)
	assert.Equal(t, pcm, clip.Data)
	assert.Equal(t, SampleRate, clip.SampleRate)
}

func TestOpenAISynthesizer_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewOpenAISynthesizer(Config{Provider: BackendOpenAI, APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}
