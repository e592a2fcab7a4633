package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/placement/internal/quiz"
)

// ErrDuplicateResult is returned when a result id is appended twice.
var ErrDuplicateResult = errors.New("test result already recorded")

// QueryOpts filters and paginates event queries.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Kind    string    // exact match when set
	Purpose string    // exact match when set
}

// HistoryRepo is the append-only collection of finished tests.
type HistoryRepo interface {
	// Append stores a result at the end of the history.
	Append(ctx context.Context, r quiz.TestResult) error

	// All returns every result in append order. An empty history is an
	// empty slice, not an error.
	All(ctx context.Context) ([]quiz.TestResult, error)

	// Get returns the result with the given id, or nil if there is none.
	Get(ctx context.Context, id string) (*quiz.TestResult, error)
}

// Request kinds.
const (
	KindLLM    = "llm"
	KindSpeech = "speech"
)

// RequestEventData describes one outbound AI request.
type RequestEventData struct {
	Kind         string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// UsageRow aggregates requests sharing one key.
type UsageRow struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records outbound AI requests.
type EventRepo interface {
	AppendRequest(ctx context.Context, data RequestEventData) error
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)
	// GetRequest returns nil when the event does not exist.
	GetRequest(ctx context.Context, id int) (*RequestEventRecord, error)
	// UsageBy groups requests by "purpose" or "model".
	UsageBy(ctx context.Context, column string) ([]UsageRow, error)
}

// ReviewNote is advisory feedback on one manually graded answer.
type ReviewNote struct {
	ID             int
	Sequence       int64
	Timestamp      time.Time
	ResultID       string
	QuestionID     int
	Model          string
	SuggestedLevel string
	Feedback       string
	Strengths      []string
	Issues         []string
}

// ReviewRepo stores review notes.
type ReviewRepo interface {
	SaveReview(ctx context.Context, note ReviewNote) error
	// ReviewsFor returns the notes of a result, newest last.
	ReviewsFor(ctx context.Context, resultID string) ([]ReviewNote, error)
}
