package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func testSchema() *Schema {
	return &Schema{
		Name: "test-person",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			},
			"required":             []any{"name", "age"},
			"additionalProperties": false,
		},
	}
}

type recordingEvents struct {
	events []store.RequestEventData
	err    error
}

func (r *recordingEvents) AppendRequest(_ context.Context, data store.RequestEventData) error {
	r.events = append(r.events, data)
	return r.err
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

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = &MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_InvalidOutputRetriedOnce(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = &MockResponse{Content: json.RawMessage(`{"name":"x"}`)}

	_, err := WithRetry(mock, RetryConfig{MaxAttempts: 5, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}).
		Generate(context.Background(), Request{Schema: testSchema()})
	var inv *ErrInvalidResponse
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_TruncationNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}})
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, RetryConfig{MaxAttempts: 5, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, func(context.Context) error {
		calls++
		cancel()
		return &ErrProviderUnavailable{}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoff_HonoursRetryAfter(t *testing.T) {
	cfg := fastRetry()
	assert.Equal(t, 3*time.Second, cfg.backoff(0, &ErrRateLimit{RetryAfter: 3 * time.Second}))

	wait := cfg.backoff(10, errors.New("x"))
	assert.LessOrEqual(t, wait, time.Duration(float64(cfg.MaxWait)*1.2))
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"name":"A","age":1}`), Usage: newUsage(11, 3)},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, events)
	ctx := WithPurpose(context.Background(), "review")

	_, err := p.Generate(ctx, Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "essay"}}, Schema: testSchema()})
	require.NoError(t, err)
	_, err = p.Generate(ctx, UserPrompt("", "again"))
	require.Error(t, err)

	require.Len(t, events.events, 2)
	ok := events.events[0]
	assert.Equal(t, store.KindLLM, ok.Kind)
	assert.Equal(t, BackendMock, ok.Provider)
	assert.Equal(t, "review", ok.Purpose)
	assert.True(t, ok.Success)
	assert.Equal(t, 11, ok.InputTokens)
	assert.True(t, strings.Contains(ok.RequestBody, "[system]\nbe brief"))
	assert.True(t, strings.Contains(ok.RequestBody, "[schema: test-person]"))

	failed := events.events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestLogging_StoreFailureDoesNotFailRequest(t *testing.T) {
	events := &recordingEvents{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"hi"`)})

	_, err := WithLogging(mock, events).Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestPurposeDefault(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "x", PurposeFrom(WithPurpose(context.Background(), "x")))
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Alice","age":10,"grade":"A"}`, false},
		{"optional omitted", `{"name":"Bob","age":8}`, false},
		{"missing required", `{"name":"Charlie"}`, true},
		{"bad enum", `{"name":"D","age":1,"grade":"Z"}`, true},
		{"extra field", `{"name":"E","age":1,"x":1}`, true},
		{"not json", `name: Alice`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "got %T: %v", err, err)
		})
	}

	assert.NoError(t, validateResponse(nil, json.RawMessage(`anything`)))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "anthropic without key")

	cfg.Anthropic.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = BackendMock
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "cohere"
	assert.ErrorContains(t, cfg.Validate(), "unknown LLM provider")

	cfg.Provider = ""
	assert.Error(t, cfg.Validate())
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = BackendMock

	p, err := NewProvider(context.Background(), cfg, &recordingEvents{})
	require.NoError(t, err)
	assert.Equal(t, BackendMock, p.Name())
	assert.Equal(t, "mock", p.ModelID())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.00075, c.Cost(1000, 1000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}
