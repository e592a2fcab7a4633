package review

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/store"
)

const (
	writingID  = 13
	speakingID = 17
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleResult() quiz.TestResult {
	yes := true
	return quiz.TestResult{
		ID:          "res-1",
		StudentData: quiz.StudentData{FullName: "Анна Смирнова", Age: 16, Goals: "Сдать экзамен", LessonType: quiz.LessonGroup},
		Answers: []quiz.Answer{
			{QuestionID: 1, UserAnswer: "am", IsCorrect: &yes},
			{QuestionID: writingID, UserAnswer: "Hi Tom! Come to my party on Saturday at 5."},
			{QuestionID: speakingID, UserAnswer: ""},
		},
	}
}

const validNote = `{"suggested_level":"A2","feedback":"Короткий, но понятный текст.","strengths":["clear invitation"],"issues":["too short"]}`

func TestPending(t *testing.T) {
	got := Pending(quiz.Bank(), sampleResult())
	require.Len(t, got, 2)
	assert.Equal(t, writingID, got[0].ID)
	assert.Equal(t, speakingID, got[1].ID)

	assert.Empty(t, Pending(quiz.Bank(), quiz.TestResult{}))
}

func TestReview_SavesNote(t *testing.T) {
	st := openStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validNote)})
	svc := NewService(mock, st.ReviewRepo(), DefaultConfig())

	result := sampleResult()
	note, err := svc.Review(context.Background(), quiz.Bank(), result, writingID)
	require.NoError(t, err)
	assert.Equal(t, "A2", note.SuggestedLevel)
	assert.Equal(t, []string{"too short"}, note.Issues)

	saved, err := st.ReviewRepo().ReviewsFor(context.Background(), "res-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, writingID, saved[0].QuestionID)
	assert.Equal(t, "mock", saved[0].Model)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, NoteSchema, calls[0].Schema)
	assert.True(t, strings.Contains(calls[0].Messages[0].Content, "Come to my party"))
}

func TestReview_DoesNotTouchResult(t *testing.T) {
	st := openStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validNote)})
	svc := NewService(mock, st.ReviewRepo(), DefaultConfig())

	result := sampleResult()
	result.Score, result.MaxScore, result.PreliminaryLevel = 5, 140, "A1 (Beginner)"
	before := result

	_, err := svc.Review(context.Background(), quiz.Bank(), result, writingID)
	require.NoError(t, err)
	assert.Equal(t, before, result)
}

func TestReview_Rejects(t *testing.T) {
	st := openStore(t)
	svc := NewService(llm.NewMockProvider(), st.ReviewRepo(), DefaultConfig())
	ctx := context.Background()

	_, err := svc.Review(ctx, quiz.Bank(), sampleResult(), 1)
	assert.ErrorIs(t, err, ErrNotManual)

	_, err = svc.Review(ctx, quiz.Bank(), sampleResult(), 999)
	assert.ErrorIs(t, err, ErrNoQuestion)

	result := sampleResult()
	result.Answers = result.Answers[:1]
	_, err = svc.Review(ctx, quiz.Bank(), result, writingID)
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestReview_ProviderFailure(t *testing.T) {
	st := openStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	svc := NewService(mock, st.ReviewRepo(), DefaultConfig())

	_, err := svc.Review(context.Background(), quiz.Bank(), sampleResult(), writingID)
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))

	saved, err := st.ReviewRepo().ReviewsFor(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestReview_InvalidOutput(t *testing.T) {
	st := openStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"suggested_level":"D9","feedback":"x","strengths":[],"issues":[]}`)})
	svc := NewService(mock, st.ReviewRepo(), DefaultConfig())

	_, err := svc.Review(context.Background(), quiz.Bank(), sampleResult(), writingID)
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestReviewAll(t *testing.T) {
	st := openStore(t)
	mock := llm.NewMockProvider()
	mock.Fallback = &llm.MockResponse{Content: json.RawMessage(validNote)}
	svc := NewService(mock, st.ReviewRepo(), DefaultConfig())

	notes, err := svc.ReviewAll(context.Background(), quiz.Bank(), sampleResult())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, speakingID, notes[1].QuestionID)
	assert.True(t, strings.Contains(mock.Calls()[1].Messages[0].Content, "(no answer given)"))
}
