package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmbeddedBankPasses(t *testing.T) {
	require.NoError(t, Validate())
}

func TestBank_CoversEveryLevelAndType(t *testing.T) {
	levels := map[Level]bool{}
	types := map[QuestionType]bool{}
	for _, q := range Bank() {
		levels[q.Level] = true
		types[q.Type] = true
	}
	for _, l := range Levels {
		assert.True(t, levels[l], "level %s has no questions", l)
	}
	for _, typ := range AllTypes {
		assert.True(t, types[typ], "type %s has no questions", typ)
	}
}

func TestBank_ReturnsCopy(t *testing.T) {
	b := Bank()
	b[0].Prompt = "changed"
	b[0].Options[0] = "changed"

	fresh := Bank()
	assert.NotEqual(t, "changed", fresh[0].Prompt)
	assert.NotEqual(t, "changed", fresh[0].Options[0])
}

func TestValidateBank_CollectsProblems(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: TypeGrammar, Level: LevelA1, Prompt: "p", Points: 5, Options: []string{"a", "b"}, CorrectAnswer: "c"},
		{ID: 1, Type: TypeWriting, Level: LevelB1, Prompt: "p", Points: 0, CorrectAnswer: "x"},
		{ID: 3, Type: TypeListening, Level: "Z9", Prompt: "p", Points: 5, CorrectAnswer: "a"},
	}
	err := ValidateBank(questions)
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"duplicate question ID: 1",
		"not among the options",
		"points must be > 0",
		"must not carry a correct answer",
		"unknown level",
		"no listening text",
		"question 3: auto-graded question has no options",
	} {
		assert.True(t, strings.Contains(msg, want), "missing %q in:\n%s", want, msg)
	}
}

func TestValidateBank_AutoGradedNeedsOptions(t *testing.T) {
	q := Question{ID: 1, Type: TypeVocabulary, Level: LevelA2, Prompt: "p", Points: 5, CorrectAnswer: "cat"}
	err := ValidateBank([]Question{q})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no options")

	q.Options = []string{"cat", "dog"}
	assert.NoError(t, ValidateBank([]Question{q}))
}

func TestGrade(t *testing.T) {
	q := Question{Type: TypeGrammar, CorrectAnswer: "is"}

	tests := []struct {
		answer string
		want   bool
	}{
		{"is", true},
		{"are", false},
		{"Is", false},
		{" is", false},
	}
	for _, tt := range tests {
		got := Grade(q, tt.answer)
		if got == nil {
			t.Fatalf("Grade(%q) = nil, want %v", tt.answer, tt.want)
		}
		if *got != tt.want {
			t.Errorf("Grade(%q) = %v, want %v", tt.answer, *got, tt.want)
		}
	}

	if Grade(Question{Type: TypeSpeaking}, "anything") != nil {
		t.Error("speaking answers must not be auto-graded")
	}
}

func TestAttempt_CompletesWithOneAnswerPerQuestion(t *testing.T) {
	questions := []Question{
		{ID: 10, Type: TypeGrammar, Options: []string{"a", "b"}, CorrectAnswer: "a", Points: 5},
		{ID: 20, Type: TypeWriting, Points: 10},
		{ID: 30, Type: TypeVocabulary, Options: []string{"x", "y"}, CorrectAnswer: "y", Points: 5},
	}
	a := NewAttempt(questions)

	a.Select("a")
	require.False(t, a.Next())

	// Writing may be skipped.
	require.True(t, a.CanAdvance())
	require.False(t, a.Next())

	require.True(t, a.IsLast())
	a.Select("x")
	require.True(t, a.Next())
	require.True(t, a.Done())

	answers := a.Answers()
	require.Len(t, answers, 3)
	assert.Equal(t, 10, answers[0].QuestionID)
	assert.True(t, answers[0].Correct())
	assert.True(t, answers[1].ManuallyGraded())
	assert.Equal(t, "", answers[1].UserAnswer)
	assert.False(t, answers[2].Correct())
	assert.False(t, answers[2].ManuallyGraded())
}

func TestAttempt_BlocksEmptyAutoGradedAnswer(t *testing.T) {
	a := NewAttempt([]Question{{ID: 1, Type: TypeReading, CorrectAnswer: "a", Points: 5}})

	assert.False(t, a.CanAdvance())
	a.Select("   ")
	assert.False(t, a.CanAdvance())
	assert.False(t, a.Next())
	assert.Empty(t, a.Answers())

	idx, total := a.Progress()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, total)
}

func TestAttempt_PendingClearedBetweenQuestions(t *testing.T) {
	a := NewAttempt([]Question{
		{ID: 1, Type: TypeGrammar, CorrectAnswer: "a", Points: 5},
		{ID: 2, Type: TypeGrammar, CorrectAnswer: "b", Points: 5},
	})
	a.Select("a")
	a.Next()
	assert.Equal(t, "", a.Pending())
	assert.False(t, a.CanAdvance())
}

func TestFilter(t *testing.T) {
	b := Bank()
	for _, q := range Filter(b, LevelB1, "") {
		assert.Equal(t, LevelB1, q.Level)
	}
	listening := Filter(b, "", TypeListening)
	require.NotEmpty(t, listening)
	for _, q := range listening {
		assert.NotEmpty(t, q.ListeningText)
	}
	assert.Len(t, Filter(b, "", ""), len(b))
}
