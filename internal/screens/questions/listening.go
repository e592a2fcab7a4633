package questions

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/speech"
)

// MsgNoDevice is shown when no audio output can be opened.
const MsgNoDevice = "Ваш терминал не поддерживает воспроизведение аудио."

type playState int

const (
	playIdle playState = iota
	playLoading
	playPlaying
)

type (
	audioReadyMsg struct {
		gen int
		buf *audio.Buffer
	}
	audioFailedMsg struct {
		gen int
		err error
	}
	playbackDoneMsg struct {
		gen int
		err error
	}
)

// listening is the play control of one listening question. It owns the
// output device: the device is opened on the first play and closed when
// the question is left. The decoded clip is kept for replays.
type listening struct {
	text  string
	synth speech.Synthesizer
	open  audio.OpenFunc

	// gen tags commands so results that arrive after close are dropped.
	gen    int
	state  playState
	err    string
	buf    *audio.Buffer
	device audio.Device
	cancel context.CancelFunc
}

func newListening(text string, synth speech.Synthesizer, open audio.OpenFunc, gen int) *listening {
	return &listening{text: text, synth: synth, open: open, gen: gen}
}

// busy reports whether the play control is disabled.
func (l *listening) busy() bool {
	return l.state != playIdle
}

// play starts synthesis, or playback when the clip is already decoded.
// It does nothing while loading or playing.
func (l *listening) play() tea.Cmd {
	if l.busy() {
		return nil
	}
	l.err = ""
	if l.buf != nil {
		return l.startPlayback()
	}
	if l.synth == nil {
		l.err = speech.UserMessage(speech.ErrNotConfigured)
		return nil
	}

	l.state = playLoading
	synth, text, gen := l.synth, l.text, l.gen
	return func() tea.Msg {
		ctx := llm.WithPurpose(context.Background(), speech.PurposeListening)
		clip, err := synth.Synthesize(ctx, text)
		if err != nil {
			return audioFailedMsg{gen: gen, err: err}
		}
		buf, err := audio.Decode(clip.Data, clip.SampleRate, clip.Channels)
		if err != nil {
			return audioFailedMsg{gen: gen, err: err}
		}
		return audioReadyMsg{gen: gen, buf: buf}
	}
}

func (l *listening) startPlayback() tea.Cmd {
	if l.device == nil {
		var err error
		if l.open == nil {
			err = audio.ErrNoPlayer
		} else {
			l.device, err = l.open()
		}
		if err != nil {
			l.state = playIdle
			l.err = MsgNoDevice
			return nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.state, l.cancel = playPlaying, cancel
	dev, buf, gen := l.device, l.buf, l.gen
	return func() tea.Msg {
		return playbackDoneMsg{gen: gen, err: dev.Play(ctx, buf)}
	}
}

// update handles the messages of this control. ok is false for messages
// that belong to another question.
func (l *listening) update(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	switch msg := msg.(type) {
	case audioReadyMsg:
		if msg.gen != l.gen {
			return nil, false
		}
		l.buf = msg.buf
		return l.startPlayback(), true

	case audioFailedMsg:
		if msg.gen != l.gen {
			return nil, false
		}
		l.state = playIdle
		l.err = speech.UserMessage(msg.err)
		return nil, true

	case playbackDoneMsg:
		if msg.gen != l.gen {
			return nil, false
		}
		l.state = playIdle
		if l.cancel != nil {
			l.cancel()
			l.cancel = nil
		}
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) && !errors.Is(msg.err, audio.ErrClosed) {
			l.err = speech.MsgLoadFailed
		}
		return nil, true
	}
	return nil, false
}

// dismiss clears the error message.
func (l *listening) dismiss() {
	l.err = ""
}

// close stops playback and releases the device.
func (l *listening) close() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.device != nil {
		l.device.Close()
		l.device = nil
	}
	l.gen = -1
}

func (l *listening) label() string {
	switch l.state {
	case playLoading:
		return "Загрузка..."
	case playPlaying:
		return "Воспроизведение..."
	default:
		return "Прослушать аудио"
	}
}
