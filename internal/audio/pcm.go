// Package audio decodes PCM clips and plays them on an output device.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrOddLength  = errors.New("audio: PCM16 data has an odd number of bytes")
	ErrMisaligned = errors.New("audio: sample count is not a multiple of the channel count")
)

// Buffer is decoded audio: one slice of samples in [-1, 1) per channel.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// Decode converts interleaved signed 16-bit little-endian PCM into a
// Buffer. Each sample is divided by 32768.
func Decode(raw []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("audio: invalid format %d Hz x%d", sampleRate, channels)
	}
	if len(raw)%2 != 0 {
		return nil, ErrOddLength
	}
	samples := len(raw) / 2
	if samples%channels != 0 {
		return nil, ErrMisaligned
	}

	frames := samples / channels
	buf := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for c := range buf.Channels {
		buf.Channels[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range channels {
			off := 2 * (i*channels + c)
			s := int16(binary.LittleEndian.Uint16(raw[off:]))
			buf.Channels[c][i] = float32(s) / 32768
		}
	}
	return buf, nil
}

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration is the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// PCM16 re-encodes the buffer as interleaved PCM16LE. Samples outside
// [-1, 1) are clipped.
func (b *Buffer) PCM16() []byte {
	n := len(b.Channels)
	out := make([]byte, 2*n*b.Frames())
	for i := range b.Frames() {
		for c := range n {
			v := math.Round(float64(b.Channels[c][i]) * 32768)
			v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
			binary.LittleEndian.PutUint16(out[2*(i*n+c):], uint16(int16(v)))
		}
	}
	return out
}
