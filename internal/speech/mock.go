package speech

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
)

// MockSynthesizer returns Err if set, otherwise Clip if set, otherwise a
// short sine tone. It records the texts it was asked to speak.
type MockSynthesizer struct {
	Clip *Clip
	Err  error

	mu    sync.Mutex
	texts []string
}

func (m *MockSynthesizer) Synthesize(_ context.Context, text string) (*Clip, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Clip != nil {
		return m.Clip, nil
	}
	return Tone(440, 200), nil
}

func (m *MockSynthesizer) ModelID() string { return "mock" }
func (m *MockSynthesizer) Name() string    { return BackendMock }

// Texts returns every text synthesized so far.
func (m *MockSynthesizer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Tone renders a sine wave of freq Hz lasting ms milliseconds.
func Tone(freq float64, ms int) *Clip {
	n := SampleRate * ms / 1000
	data := make([]byte, 2*n)
	for i := range n {
		v := 0.3 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(v*math.MaxInt16)))
	}
	return newClip(data)
}
