// Package speech turns listening texts into audio clips.
package speech

import (
	"context"
	"errors"
)

// Output format of every backend: mono 16-bit little-endian PCM at 24 kHz.
const (
	SampleRate = 24000
	Channels   = 1
)

// Synthesizer renders text as speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Clip, error)
	ModelID() string
	Name() string
}

// Clip is raw PCM16LE audio.
type Clip struct {
	Data       []byte
	SampleRate int
	Channels   int
}

func newClip(data []byte) *Clip {
	return &Clip{Data: data, SampleRate: SampleRate, Channels: Channels}
}

// ErrEmptyAudio is a successful response that carries no audio.
var ErrEmptyAudio = errors.New("speech: response contained no audio")

// ErrNotConfigured is returned by the disabled synthesizer.
var ErrNotConfigured = errors.New("speech: no synthesizer configured")

// Learner-facing messages.
const (
	MsgEmptyAudio = "Не удалось сгенерировать аудио."
	MsgLoadFailed = "Произошла ошибка при загрузке аудио."
)

// UserMessage maps a synthesis failure to the text shown next to the
// play control.
func UserMessage(err error) string {
	if errors.Is(err, ErrEmptyAudio) {
		return MsgEmptyAudio
	}
	return MsgLoadFailed
}

// PurposeListening labels synthesis requests in the event log.
const PurposeListening = "listening-audio"
