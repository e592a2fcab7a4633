package quiz

import (
	"slices"
	"strings"
)

// Grade checks answer against q. It returns nil for questions that need a
// human reviewer. Comparison is exact: no trimming, no case folding.
func Grade(q Question, answer string) *bool {
	if !q.Type.AutoGradable() {
		return nil
	}
	ok := answer == q.CorrectAnswer
	return &ok
}

// Attempt walks a learner through the bank one question at a time and
// accumulates exactly one Answer per question, in bank order.
type Attempt struct {
	questions []Question
	index     int
	pending   string
	answers   []Answer
}

// NewAttempt starts an attempt over questions.
func NewAttempt(questions []Question) *Attempt {
	return &Attempt{
		questions: questions,
		answers:   make([]Answer, 0, len(questions)),
	}
}

// Current returns the question being answered. ok is false once the
// attempt is done.
func (a *Attempt) Current() (q Question, ok bool) {
	if a.Done() {
		return Question{}, false
	}
	return a.questions[a.index], true
}

// Pending returns the answer text entered for the current question.
func (a *Attempt) Pending() string {
	return a.pending
}

// Select records text as the pending answer for the current question.
func (a *Attempt) Select(text string) {
	a.pending = text
}

// CanAdvance reports whether the learner may move on. Auto-graded questions
// need a non-blank answer; writing and speaking may be left empty.
func (a *Attempt) CanAdvance() bool {
	q, ok := a.Current()
	if !ok {
		return false
	}
	if !q.Type.AutoGradable() {
		return true
	}
	return strings.TrimSpace(a.pending) != ""
}

// IsLast reports whether the current question is the final one.
func (a *Attempt) IsLast() bool {
	return a.index == len(a.questions)-1
}

// Next grades the pending answer, stores it and moves to the next
// question. It reports whether the attempt is now complete. Calls that
// CanAdvance would reject are ignored.
func (a *Attempt) Next() (done bool) {
	if !a.CanAdvance() {
		return a.Done()
	}
	q := a.questions[a.index]
	a.answers = append(a.answers, Answer{
		QuestionID: q.ID,
		UserAnswer: a.pending,
		IsCorrect:  Grade(q, a.pending),
	})
	a.pending = ""
	a.index++
	return a.Done()
}

// Done reports whether every question has been answered.
func (a *Attempt) Done() bool {
	return a.index >= len(a.questions)
}

// Answers returns a copy of the answers collected so far.
func (a *Attempt) Answers() []Answer {
	return slices.Clone(a.answers)
}

// Progress returns the zero-based index of the current question and the
// total number of questions.
func (a *Attempt) Progress() (index, total int) {
	return a.index, len(a.questions)
}

// Questions returns the questions of this attempt.
func (a *Attempt) Questions() []Question {
	return a.questions
}
