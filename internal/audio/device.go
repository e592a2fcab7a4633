package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrBusy is returned by Play while another buffer is playing.
	ErrBusy = errors.New("audio: device is already playing")

	// ErrNoPlayer means no playback command was found on the system.
	ErrNoPlayer = errors.New("audio: no audio player found (install aplay, paplay or ffplay, or set PLACEMENT_AUDIO_PLAYER)")

	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("audio: device closed")
)

// Device plays one buffer at a time.
type Device interface {
	// Play blocks until the buffer has been played, ctx is done or the
	// device is closed.
	Play(ctx context.Context, b *Buffer) error
	Close() error
}

// OpenFunc opens a device. Screens receive one instead of a device so the
// device is only opened when audio is actually played.
type OpenFunc func() (Device, error)

// CommandDevice pipes PCM16LE to an external player process.
type CommandDevice struct {
	argv []string

	mu      sync.Mutex
	playing bool
	closed  bool
	cancel  context.CancelFunc
}

// known players, tried in order. {rate} and {channels} are substituted.
var players = [][]string{
	{"aplay", "-q", "-t", "raw", "-f", "S16_LE", "-r", "{rate}", "-c", "{channels}"},
	{"paplay", "--raw", "--format=s16le", "--rate={rate}", "--channels={channels}"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "-f", "s16le", "-ar", "{rate}", "-ac", "{channels}", "-i", "-"},
}

// OpenCommand returns a device for command, a player command line that
// reads raw PCM from stdin, or for the first known player on PATH when
// command is blank.
func OpenCommand(command string) (*CommandDevice, error) {
	if argv := strings.Fields(command); len(argv) > 0 {
		if _, err := exec.LookPath(argv[0]); err != nil {
			return nil, fmt.Errorf("audio player %q: %w", argv[0], err)
		}
		return &CommandDevice{argv: argv}, nil
	}
	for _, argv := range players {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return &CommandDevice{argv: argv}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Opener returns an OpenFunc for OpenCommand(command).
func Opener(command string) OpenFunc {
	return func() (Device, error) {
		d, err := OpenCommand(command)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func (d *CommandDevice) Play(ctx context.Context, b *Buffer) error {
	d.mu.Lock()
	switch {
	case d.closed:
		d.mu.Unlock()
		return ErrClosed
	case d.playing:
		d.mu.Unlock()
		return ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	d.playing, d.cancel = true, cancel
	d.mu.Unlock()

	defer func() {
		cancel()
		d.mu.Lock()
		d.playing, d.cancel = false, nil
		d.mu.Unlock()
	}()

	args := expand(d.argv, b.SampleRate, len(b.Channels))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(b.PCM16())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio: %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Close stops any playback in progress.
func (d *CommandDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}

func expand(argv []string, rate, channels int) []string {
	r := strings.NewReplacer("{rate}", strconv.Itoa(rate), "{channels}", strconv.Itoa(channels))
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = r.Replace(a)
	}
	return out
}
