package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply of MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records requests.
// When the script runs out it answers with ErrProviderUnavailable, or
// with Fallback if one is set.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	calls    []Request
	Fallback *MockResponse
}

// NewMockProvider returns a provider that replays responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{script: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	var next MockResponse
	switch {
	case len(m.script) > 0:
		next, m.script = m.script[0], m.script[1:]
	case m.Fallback != nil:
		next = *m.Fallback
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }
func (m *MockProvider) Name() string    { return BackendMock }

// Enqueue appends replies to the script.
func (m *MockProvider) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns the number of Generate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
