package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id, name string) quiz.TestResult {
	yes := true
	return quiz.TestResult{
		ID:          id,
		StudentData: quiz.StudentData{FullName: name, Age: 20, Goals: "work", LessonType: quiz.LessonGroup},
		Answers: []quiz.Answer{
			{QuestionID: 1, UserAnswer: "is", IsCorrect: &yes},
			{QuestionID: 13, UserAnswer: "Dear Tom, ..."},
		},
		Score:            5,
		MaxScore:         130,
		PreliminaryLevel: "A1 (Beginner)",
		CompletedAt:      "05.03.2024, 14:07:09",
	}
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	db := openTestStore(t).DB()

	for _, name := range []string{"global_sequence", "test_results", "request_events", "review_notes"} {
		var got string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&got)
		if err != nil {
			t.Errorf("table %s: %v", name, err)
		}
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.History().Append(ctx, sampleResult("r1", "Anna")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.History().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Anna", all[0].StudentData.FullName)
}

func TestHistory_EmptyIsNotAnError(t *testing.T) {
	all, err := openTestStore(t).History().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHistory_AppendPreservesOrderAndContent(t *testing.T) {
	repo := openTestStore(t).History()
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, repo.Append(ctx, sampleResult(id, "Student "+id)))
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].ID)
	assert.Equal(t, "r3", all[2].ID)

	assert.Equal(t, sampleResult("r2", "Student r2"), all[1])
	assert.Nil(t, all[1].Answers[1].IsCorrect, "manual answer must stay ungraded")
	require.NotNil(t, all[1].Answers[0].IsCorrect)
	assert.True(t, *all[1].Answers[0].IsCorrect)
}

func TestHistory_DuplicateIDRejected(t *testing.T) {
	repo := openTestStore(t).History()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleResult("r1", "A")))
	err := repo.Append(ctx, sampleResult("r1", "B"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateResult))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].StudentData.FullName)
}

func TestHistory_ConcurrentDuplicateAppend(t *testing.T) {
	repo := openTestStore(t).History()
	ctx := context.Background()

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Append(ctx, sampleResult("same-id", "A"))
		}()
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		if err == nil {
			saved++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateResult)
	}
	assert.Equal(t, 1, saved)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHistory_Get(t *testing.T) {
	repo := openTestStore(t).History()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleResult("r1", "A")))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.StudentData.FullName)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	events := []RequestEventData{
		{Kind: KindLLM, Provider: "anthropic", Model: "m1", Purpose: "review", InputTokens: 10, OutputTokens: 4, LatencyMs: 100, Success: true},
		{Kind: KindSpeech, Provider: "gemini", Model: "tts", Purpose: "listening-audio", LatencyMs: 300, Success: false, ErrorMessage: "boom"},
		{Kind: KindLLM, Provider: "anthropic", Model: "m1", Purpose: "review", InputTokens: 20, OutputTokens: 6, LatencyMs: 200, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendRequest(ctx, e))
	}

	all, err := repo.QueryRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Sequence, "newest first")

	speech, err := repo.QueryRequests(ctx, QueryOpts{Kind: KindSpeech})
	require.NoError(t, err)
	require.Len(t, speech, 1)
	assert.Equal(t, "boom", speech[0].ErrorMessage)
	assert.False(t, speech[0].Success)

	limited, err := repo.QueryRequests(ctx, QueryOpts{Limit: 1, Purpose: "review"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 20, limited[0].InputTokens)

	windowed, err := repo.QueryRequests(ctx, QueryOpts{From: time.Now().Add(-time.Hour), To: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, windowed, 3)

	got, err := repo.GetRequest(ctx, all[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gemini", got.Provider)

	missing, err := repo.GetRequest(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepo_UsageBy(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{Kind: KindLLM, Model: "a", Purpose: "review", InputTokens: 10, OutputTokens: 1, LatencyMs: 100, Success: true}))
	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{Kind: KindLLM, Model: "a", Purpose: "review", InputTokens: 30, OutputTokens: 3, LatencyMs: 300, Success: true}))
	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{Kind: KindSpeech, Model: "b", Purpose: "listening-audio", LatencyMs: 50, Success: true}))

	rows, err := repo.UsageBy(ctx, "purpose")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, UsageRow{Key: "listening-audio", Calls: 1, AvgLatencyMs: 50}, rows[0])
	assert.Equal(t, UsageRow{Key: "review", Calls: 2, InputTokens: 40, OutputTokens: 4, AvgLatencyMs: 200}, rows[1])

	_, err = repo.UsageBy(ctx, "error_message; DROP TABLE x")
	assert.Error(t, err)
}

func TestReviewRepo(t *testing.T) {
	repo := openTestStore(t).ReviewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SaveReview(ctx, ReviewNote{
		ResultID: "r1", QuestionID: 13, Model: "mock", SuggestedLevel: "B1",
		Feedback: "Clear invitation.", Strengths: []string{"greeting"}, Issues: nil,
	}))
	require.NoError(t, repo.SaveReview(ctx, ReviewNote{ResultID: "r2", QuestionID: 17, SuggestedLevel: "A2"}))

	notes, err := repo.ReviewsFor(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, 13, notes[0].QuestionID)
	assert.Equal(t, "B1", notes[0].SuggestedLevel)
	assert.Equal(t, []string{"greeting"}, notes[0].Strengths)
	assert.Empty(t, notes[0].Issues)
}
